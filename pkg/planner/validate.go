package planner

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aretw0/serlyo/pkg/core"
)

// ValidatePost checks the fields required to persist a post.
// Failures are returned as *core.ValidationError wrapping validation.Errors.
func ValidatePost(p core.Post) error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.By(notBlank), validation.Length(0, 280)),
		validation.Field(&p.Date, validation.Required, validation.By(isoDate)),
		validation.Field(&p.Format, validation.By(validFormat)),
		validation.Field(&p.Status, validation.By(validStatus)),
		validation.Field(&p.Network, validation.By(validNetwork)),
		validation.Field(&p.Link, validation.Length(0, 2048)),
	)
	if err != nil {
		return &core.ValidationError{Err: err}
	}
	return nil
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func isoDate(value any) error {
	s, _ := value.(string)
	if _, err := core.ParseDate(s); err != nil {
		return errors.New("must be a date in YYYY-MM-DD format")
	}
	return nil
}

func validStatus(value any) error {
	s, ok := value.(core.Status)
	if !ok || !s.Valid() {
		return errors.New("must be a known status")
	}
	return nil
}

func validNetwork(value any) error {
	n, ok := value.(core.Network)
	if !ok || !n.Valid() {
		return errors.New("must be empty or a known network")
	}
	return nil
}
