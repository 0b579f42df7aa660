package tasks

import (
	"fmt"
	"unicode/utf8"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

func validateTitle(title string) []FieldError {
	if title == "" {
		return []FieldError{{Field: "title", Message: "title is required"}}
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return []FieldError{{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", maxTitleLen),
		}}
	}
	return nil
}

func validateDescription(desc string) []FieldError {
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return []FieldError{{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", maxDescriptionLen),
		}}
	}
	return nil
}

func validateStatus(s Status) []FieldError {
	if !s.Valid() {
		return []FieldError{{
			Field:   "status",
			Message: fmt.Sprintf("status must be one of pending, in_progress, completed; got %q", s),
		}}
	}
	return nil
}

// ValidateNew checks a create request. An absent status is treated as pending.
func ValidateNew(in NewTask) []FieldError {
	var errs []FieldError
	errs = append(errs, validateTitle(in.Title)...)
	if in.Description != nil {
		errs = append(errs, validateDescription(*in.Description)...)
	}
	if in.Status.Set {
		if in.Status.Null {
			errs = append(errs, FieldError{Field: "status", Message: "status may not be null"})
		} else {
			errs = append(errs, validateStatus(in.Status.Value)...)
		}
	}
	return errs
}

// ValidatePatch checks only the fields present in p.
func ValidatePatch(p Patch) []FieldError {
	var errs []FieldError
	if p.Title.Set {
		if p.Title.Null {
			errs = append(errs, FieldError{Field: "title", Message: "title may not be null"})
		} else {
			errs = append(errs, validateTitle(p.Title.Value)...)
		}
	}
	if p.Description.Set && !p.Description.Null {
		errs = append(errs, validateDescription(p.Description.Value)...)
	}
	if p.Status.Set {
		if p.Status.Null {
			errs = append(errs, FieldError{Field: "status", Message: "status may not be null"})
		} else {
			errs = append(errs, validateStatus(p.Status.Value)...)
		}
	}
	return errs
}

func ValidateListQuery(q ListQuery) []FieldError {
	var errs []FieldError
	if q.Status != "" {
		errs = append(errs, validateStatus(q.Status)...)
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		errs = append(errs, FieldError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be between 1 and %d", MaxLimit),
		})
	}
	if q.Offset < 0 {
		errs = append(errs, FieldError{Field: "offset", Message: "offset must be >= 0"})
	}
	return errs
}
