package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syahz/apps-be/internal/language"
)

var (
	ErrPublicationNotFound    = errors.New("publication not found")
	ErrPublicationTypeInvalid = errors.New("publication type must be news or article")
	ErrTranslationMissing     = errors.New("publication translation not available")
	ErrTranslationFailed      = errors.New("translation provider failed")
	ErrTranslatorKeyMissing   = errors.New("translator api key is not configured")
	ErrSlugConflict           = errors.New("slug conflict could not be resolved")

	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTaken    = errors.New("category name already in use")
	ErrCategoryInUse        = errors.New("category is referenced by publications")
	ErrCategoryRequired     = errors.New("at least one category is required")
	ErrCategoryInvalid      = errors.New("one or more categories do not exist")

	ErrGuestBookNotFound = errors.New("guest book entry not found")
)

// TranslationMissingError reports which language's translation was requested
// but does not exist for an otherwise present publication.
type TranslationMissingError struct {
	PublicationID string
	Language      language.Code
}

func (e *TranslationMissingError) Error() string {
	if e == nil {
		return ErrTranslationMissing.Error()
	}
	return fmt.Sprintf("%s: language=%s", ErrTranslationMissing.Error(), e.Language)
}

func (e *TranslationMissingError) Unwrap() error {
	return ErrTranslationMissing
}

// TranslationError carries the target language and the upstream diagnostic of
// a failed translation call.
type TranslationError struct {
	Language language.Code
	Detail   string
	Err      error
}

func (e *TranslationError) Error() string {
	if e == nil {
		return ErrTranslationFailed.Error()
	}
	detail := strings.TrimSpace(e.Detail)
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if detail == "" {
		return fmt.Sprintf("%s: language=%s", ErrTranslationFailed.Error(), e.Language)
	}
	return fmt.Sprintf("%s: language=%s: %s", ErrTranslationFailed.Error(), e.Language, detail)
}

func (e *TranslationError) Unwrap() error {
	if e != nil && e.Err != nil {
		return e.Err
	}
	return ErrTranslationFailed
}

// Is lets errors.Is match any TranslationError against ErrTranslationFailed
// while still exposing the concrete cause through Unwrap.
func (e *TranslationError) Is(target error) bool {
	return target == ErrTranslationFailed
}
