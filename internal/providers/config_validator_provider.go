package providers

import (
	"errors"
	"ptd/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks the config against the struct tags and a few relations
// the tag language cannot express.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	r := cv.conf.Reconcile
	if r.PinRetention < r.PinCooldown {
		return errors.New("reconcile.pinRetention must not be shorter than reconcile.pinCooldown")
	}
	return nil
}
