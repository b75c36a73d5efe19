package manager

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"

	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

const englishTranslatorCode = "en"

type validation struct {
	validator  *validator.Validate
	translator ut.Translator
}

var specValidation = newValidation()

func newValidation() *validation {
	v := validator.New()
	enLocale := en.New()
	universal := ut.New(enLocale, enLocale)
	translator, _ := universal.GetTranslator(englishTranslatorCode)

	_ = enTranslation.RegisterDefaultTranslations(v, translator)

	// report fields by the flag that sets them
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("flag"); name != "" {
			return name
		}

		return strings.ToLower(field.Name)
	})

	return &validation{
		validator:  v,
		translator: translator,
	}
}

// messages returns the sorted validation failures of i
func (v *validation) messages(i interface{}) []string {
	var msgs []string

	if err := v.validator.Struct(i); err != nil {
		verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
		if !ok {
			return []string{err.Error()}
		}

		for _, e := range verrs {
			msgs = append(msgs, e.Translate(v.translator))
		}
	}

	sort.Strings(msgs)

	return msgs
}

// Validate checks the identifier and the desired fields of a nodebalancer
func (s BalancerSpec) Validate() error {
	if err := s.BalancerRef.Validate(); err != nil {
		return err
	}

	msgs := specValidation.messages(s)

	if _, err := ResolveRegion(s.Datacenter); err != nil {
		msgs = append(msgs, err.Error())
	}

	if len(msgs) > 0 {
		return newSpecError(msgs)
	}

	return nil
}

// Validate checks that the nodebalancer can be located
func (r BalancerRef) Validate() error {
	if r.ID == 0 && r.Name == "" {
		return fmt.Errorf("%w: one of name, nodebalancer-id", ErrIdentifierRequired)
	}

	if msgs := specValidation.messages(r); len(msgs) > 0 {
		return newSpecError(msgs)
	}

	return nil
}

// Validate checks that the config can be located
func (r ConfigRef) Validate() error {
	if r.ID == 0 && (r.Port == 0 || r.Protocol == "") {
		return fmt.Errorf("%w: one of config-id, port and protocol", ErrIdentifierRequired)
	}

	if msgs := specValidation.messages(r); len(msgs) > 0 {
		return newSpecError(msgs)
	}

	return nil
}

// Validate checks the identifier and the desired fields of a config
func (s ConfigSpec) Validate() error {
	if err := s.ConfigRef.Validate(); err != nil {
		return err
	}

	if msgs := specValidation.messages(s); len(msgs) > 0 {
		return newSpecError(msgs)
	}

	return nil
}

// Validate checks the identifier and the desired fields of a node. An address is required unless the
// node is being removed.
func (s NodeSpec) Validate(state reconcile.State) error {
	if s.ID == 0 && s.Name == "" {
		return fmt.Errorf("%w: one of node-id, node-name", ErrIdentifierRequired)
	}

	msgs := specValidation.messages(s)

	if state == reconcile.StatePresent && s.Address == "" {
		msgs = append(msgs, "address is a required field")
	}

	if len(msgs) > 0 {
		return newSpecError(msgs)
	}

	return nil
}
