package auth

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	digitsOnly   = regexp.MustCompile(`^[0-9]+$`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
	otherPattern = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// FieldErrors maps a form field to its validation message. Validation is
// local and synchronous; a non-empty result blocks submission.
type FieldErrors map[string]string

func validateEmail(errs FieldErrors, email string) {
	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Email is invalid"
	}
}

func validatePassword(errs FieldErrors, field, password string) {
	if password == "" {
		errs[field] = "Password is required"
	} else if len(password) < 8 {
		errs[field] = "Password must be at least 8 characters"
	}
}

func validateOTP(errs FieldErrors, otp string) {
	if otp == "" {
		errs["otp"] = "OTP is required"
	} else if len(otp) != 6 || !digitsOnly.MatchString(otp) {
		errs["otp"] = "OTP must be 6 digits"
	}
}

func ValidateSignup(email, password, confirmPassword, fullName string) FieldErrors {
	errs := FieldErrors{}
	if fullName == "" {
		errs["full_name"] = "Full name is required"
	}
	validateEmail(errs, email)
	validatePassword(errs, "password", password)
	if _, ok := errs["password"]; !ok && password != confirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}
	return errs
}

func ValidateLogin(email, password string) FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, email)
	if password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

func ValidateVerifyEmail(email, otp string) FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, email)
	validateOTP(errs, otp)
	return errs
}

func ValidateForgotPassword(email string) FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, email)
	return errs
}

func ValidateResetPassword(email, otp, newPassword, confirmPassword string) FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, email)
	validateOTP(errs, otp)
	validatePassword(errs, "new_password", newPassword)
	if _, ok := errs["new_password"]; !ok && newPassword != confirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}
	return errs
}

// PasswordStrength scores a password 0-5: length thresholds at 8 and 12,
// mixed case, digits, and symbols.
func PasswordStrength(password string) int {
	strength := 0
	if len(password) >= 8 {
		strength++
	}
	if len(password) >= 12 {
		strength++
	}
	if lowerPattern.MatchString(password) && upperPattern.MatchString(password) {
		strength++
	}
	if digitPattern.MatchString(password) {
		strength++
	}
	if otherPattern.MatchString(password) {
		strength++
	}
	return strength
}
