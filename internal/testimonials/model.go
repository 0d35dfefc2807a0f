package testimonials

import (
	"fmt"
	"strings"
	"time"
)

// Testimonial is a customer review shown on the public site.
type Testimonial struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitRequest is a new testimonial from the public form.
type SubmitRequest struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	Anonymous bool   `json:"anonymous"`
}

// Validate checks the submission. Anonymous posts don't need a name.
func (r *SubmitRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("testimonials: text is required")
	}
	if !r.Anonymous && strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("testimonials: name is required unless anonymous")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("testimonials: rating must be between 1 and 5")
	}
	return nil
}
