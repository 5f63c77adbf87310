package validation

import (
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	OK     bool
	Errors []FieldError
}

func (r *Result) add(field, message string) {
	r.OK = false
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Message joins every field message, matching the comma-joined error strings
// the API returns for 400/422 responses.
func (r *Result) Message() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var allowedPosterTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

func Login(email, password string) Result {
	res := Result{OK: true}

	if email == "" {
		res.add("email", "Email is required")
	} else if !emailRe.MatchString(email) {
		res.add("email", "Invalid email address")
	}

	switch {
	case password == "":
		res.add("password", "Password is required")
	case utf8.RuneCountInString(password) < 6:
		res.add("password", "Password must be at least 6 characters long")
	case utf8.RuneCountInString(password) > 50:
		res.add("password", "Password cannot be longer than 50 characters")
	}

	return res
}

func MovieCreate(title, year string, poster *multipart.FileHeader) Result {
	res := Result{OK: true}

	validateTitle(&res, title, true)
	validateYear(&res, year, true, false)

	if poster == nil {
		res.add("poster", "Poster is required")
	} else if !allowedPosterTypes[poster.Header.Get("Content-Type")] {
		res.add("poster", "Poster must be an image (jpeg, jpg, png)")
	}

	return res
}

func MovieUpdate(title, year string, poster *multipart.FileHeader) Result {
	res := Result{OK: true}

	if title != "" {
		validateTitle(&res, title, false)
	}
	if year != "" {
		validateYear(&res, year, false, true)
	}
	if poster != nil && !allowedPosterTypes[poster.Header.Get("Content-Type")] {
		res.add("poster", "Poster must be an image (jpeg, jpg, png)")
	}

	return res
}

func validateTitle(res *Result, title string, required bool) {
	switch {
	case title == "":
		if required {
			res.add("title", "Title is required")
		}
	case utf8.RuneCountInString(title) > 100:
		res.add("title", "Title cannot be longer than 100 characters")
	}
}

func validateYear(res *Result, year string, required, bounded bool) {
	if year == "" {
		if required {
			res.add("year", "Release year is required")
		}
		return
	}

	v, err := strconv.Atoi(year)
	if err != nil {
		res.add("year", "Release year must be an integer")
		return
	}
	if v <= 0 {
		res.add("year", "Release year must be a positive number")
		return
	}
	if bounded && (v < 1900 || v > time.Now().Year()) {
		res.add("year", "Release year must be between 1900 and the current year")
	}
}
