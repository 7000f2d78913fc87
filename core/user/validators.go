package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sivitasdev/sivitas/core"
)

var (
	roleTag  = "role"
	roleText = "unknown role"
)

// InitValidators registers user-specific validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}

func roleValidation(fl validator.FieldLevel) bool {
	return ValidRole(fl.Field().String())
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

func (rr *RegistrationRequest) Validate(validate *validator.Validate) error {
	rr.Name = core.CleanString(rr.Name)
	rr.Username = core.CleanString(rr.Username, true /* lower */)
	rr.Email = core.CleanString(rr.Email, true /* lower */)
	return validate.Struct(rr)
}

func (ov *OTPVerification) Validate(validate *validator.Validate) error {
	ov.Email = core.CleanString(ov.Email, true /* lower */)
	ov.Code = core.CleanString(ov.Code)
	return validate.Struct(ov)
}

func (ea *ExternalActivation) Validate(validate *validator.Validate) error {
	ea.Token = core.CleanString(ea.Token)
	return validate.Struct(ea)
}

func (lr *LifecycleRequest) Validate(validate *validator.Validate) error {
	if lr.NewEmail.Valid {
		lr.NewEmail.String = core.CleanString(lr.NewEmail.String, true /* lower */)
	}
	return validate.Struct(lr)
}

func (lv *LifecycleVerification) Validate(validate *validator.Validate) error {
	lv.OTP = core.CleanString(lv.OTP)
	if lv.NewEmail.Valid {
		lv.NewEmail.String = core.CleanString(lv.NewEmail.String, true /* lower */)
	}
	return validate.Struct(lv)
}
