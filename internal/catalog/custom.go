package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomPrefix marks ids derived from user-entered names.
const CustomPrefix = "custom-"

const maxCustomNameLength = 100

var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrNameTooLong   = fmt.Errorf("name must not be longer than %d characters", maxCustomNameLength)
	ErrDuplicateName = errors.New("name already exists")
)

var validate = validator.New()

type customName struct {
	Name string `validate:"required,max=100"`
}

// CustomID derives a stable id from free text: the text is lowercased, runs
// of whitespace become a single dash and the custom marker is prepended.
func CustomID(text string) string {
	return CustomPrefix + Slug(text)
}

// Slug lowercases text and joins its whitespace-separated words with dashes.
func Slug(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "-")
}

// IsCustom reports whether id was derived from a custom name.
func IsCustom(id string) bool {
	return strings.HasPrefix(id, CustomPrefix)
}

// Label strips the custom marker from id.
func Label(id string) string {
	return strings.TrimPrefix(id, CustomPrefix)
}

// ValidateCustomName checks a user-entered profession or position name and
// returns it trimmed. existing holds the ids and titles the name must not
// collide with; the comparison ignores case and compares slugs as well.
func ValidateCustomName(name string, existing []string) (string, error) {
	name = strings.TrimSpace(name)

	if err := validate.Struct(customName{Name: name}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Tag() {
			case "required":
				return "", ErrEmptyName
			case "max":
				return "", ErrNameTooLong
			}
		}
		return "", fmt.Errorf("validate name: %w", err)
	}

	slug := Slug(name)
	for _, other := range existing {
		if strings.EqualFold(strings.TrimSpace(other), name) || Slug(other) == slug {
			return "", fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}

	return name, nil
}
