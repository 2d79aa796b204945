package service

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"skillarena/internal/common"
	"skillarena/internal/domain/model"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

// validEmail accepts a bare address with a dotted domain. Display-name forms
// such as "Ada <ada@example.com>" are rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

func hasRune(s string, pred func(rune) bool) bool {
	return strings.IndexFunc(s, pred) >= 0
}

// ValidateSignup reports every failing field at once.
func ValidateSignup(req SignupRequest) error {
	v := &common.ValidationError{}

	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) < minNameLength {
		v.Add("name", "Name must be at least 2 characters")
	}
	if !validEmail(req.Email) {
		v.Add("email", "Invalid email address")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		v.Add("password", "Password must be at least 6 characters")
	}
	if !hasRune(req.Password, unicode.IsUpper) {
		v.Add("password", "Password must contain at least one uppercase letter")
	}
	if !hasRune(req.Password, unicode.IsDigit) {
		v.Add("password", "Password must contain at least one number")
	}
	if utf8.RuneCountInString(req.ConfirmPassword) < minPasswordLength {
		v.Add("confirmPassword", "Please confirm your password")
	} else if req.ConfirmPassword != req.Password {
		v.Add("confirmPassword", "Passwords don't match")
	}
	if _, ok := model.ParseRole(req.Role); !ok {
		v.Add("role", "Please select a valid role")
	}
	if !req.Terms {
		v.Add("terms", "You must accept the terms and conditions")
	}
	return v.Err()
}

// validCredentials is the shape check done before any store lookup.
func validCredentials(email, password string) bool {
	return validEmail(email) && utf8.RuneCountInString(password) >= minPasswordLength
}

func validateProfileUpdate(req UpdateMeRequest) error {
	v := &common.ValidationError{}

	if req.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*req.Name)) < minNameLength {
		v.Add("name", "Name must be at least 2 characters")
	}
	if req.Streak != nil && *req.Streak < 0 {
		v.Add("streak", "Streak cannot be negative")
	}
	if req.Skills != nil {
		for _, s := range *req.Skills {
			if strings.TrimSpace(s.Name) == "" {
				v.Add("skills", "Every skill needs a name")
				break
			}
		}
	}
	if req.Portfolio != nil {
		for _, p := range *req.Portfolio {
			if strings.TrimSpace(p.Title) == "" {
				v.Add("portfolio", "Every portfolio item needs a title")
				break
			}
		}
	}
	if req.Achievements != nil {
		for _, a := range *req.Achievements {
			if strings.TrimSpace(a.Title) == "" {
				v.Add("achievements", "Every achievement needs a title")
				break
			}
		}
	}
	return v.Err()
}
