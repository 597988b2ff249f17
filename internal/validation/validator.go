package validation

import (
	"fmt"
	"strings"

	"github.com/article-engagement-api/internal/models"
	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	contentRules = []ozzo.Rule{
		ozzo.By(notBlank),
		ozzo.By(noNUL("comment contains invalid characters")),
		ozzo.RuneLength(0, models.MaxCommentLength).
			Error(fmt.Sprintf("comment must be %d characters or fewer", models.MaxCommentLength)),
	}
	articleIDRules = []ozzo.Rule{
		ozzo.Required.Error("articleId is required"),
		ozzo.By(noNUL("articleId contains invalid characters")),
		ozzo.RuneLength(0, 255).Error("articleId is too long"),
	}
	parentIDRules = []ozzo.Rule{
		is.UUID.Error("parentId must be a UUID"),
	}
)

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return ozzo.NewError("validation_blank", "comment content is required")
	}
	return nil
}

// noNUL rejects text PostgreSQL cannot store
func noNUL(message string) ozzo.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.ContainsRune(s, 0) {
			return ozzo.NewError("validation_nul", message)
		}
		return nil
	}
}

// Validator checks request fields before they reach the store
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateContent checks a comment body: non-blank once trimmed, and at most
// MaxCommentLength characters before trimming
func (v *Validator) ValidateContent(content string) []ValidationError {
	return collect(field("content", content, contentRules...))
}

// ValidateArticleID checks an article reference
func (v *Validator) ValidateArticleID(articleID string) []ValidationError {
	return collect(field("articleId", strings.TrimSpace(articleID), articleIDRules...))
}

// ValidateNewComment checks every field of a comment creation request
func (v *Validator) ValidateNewComment(articleID, content string, parentID *string) []ValidationError {
	errs := collect(
		field("articleId", strings.TrimSpace(articleID), articleIDRules...),
		field("content", content, contentRules...),
	)
	if parentID != nil {
		errs = append(errs, collect(field("parentId", *parentID, parentIDRules...))...)
	}
	return errs
}

func field(name string, value string, rules ...ozzo.Rule) *ValidationError {
	if err := ozzo.Validate(value, rules...); err != nil {
		return &ValidationError{Field: name, Message: err.Error()}
	}
	return nil
}

func collect(results ...*ValidationError) []ValidationError {
	var errors []ValidationError
	for _, r := range results {
		if r != nil {
			errors = append(errors, *r)
		}
	}
	return errors
}
