// Package validation checks the structure and referential integrity of a model.
package validation

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
)

// elementRecord is the validated view of one element.
type elementRecord struct {
	Layer         string               `json:"layer" validate:"required"`
	ID            string               `json:"id" validate:"required,layerid"`
	Type          string               `json:"type" validate:"required"`
	Name          string               `json:"name" validate:"required"`
	Relationships []relationshipRecord `json:"relationships" validate:"dive"`
}

type relationshipRecord struct {
	Type   string `json:"type" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// Validator implements ports.ModelValidator with go-playground/validator struct rules
// plus a relationship target check across the whole model.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the element rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag.
	_ = v.RegisterValidation("layerid", validateLayerID)

	return &Validator{validate: v}
}

// validateLayerID checks that an element id starts with its layer name.
func validateLayerID(fl validator.FieldLevel) bool {
	layer := fl.Parent().FieldByName("Layer")
	if !layer.IsValid() {
		return false
	}
	got, err := domain.LayerOf(fl.Field().String())
	return err == nil && got == layer.String()
}

// Validate returns every issue found in m, in layer order then element id order.
func (v *Validator) Validate(ctx context.Context, m *domain.Model) ([]domain.ValidationIssue, error) {
	var issues []domain.ValidationIssue

	for _, name := range m.LayerNames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		layer, err := m.Layer(name)
		if err != nil {
			return nil, err
		}

		for _, el := range layer.Elements() {
			issues = append(issues, v.validateElement(name, el)...)
			issues = append(issues, danglingTargets(m, name, el)...)
		}
	}

	return issues, nil
}

func (v *Validator) validateElement(layer string, el *domain.Element) []domain.ValidationIssue {
	rec := elementRecord{
		Layer: layer,
		ID:    el.ID,
		Type:  el.Type,
		Name:  el.Name,
	}
	for _, rel := range el.Relationships {
		rec.Relationships = append(rec.Relationships, relationshipRecord(rel))
	}

	err := v.validate.Struct(rec)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // Struct returns the concrete type
	if !ok {
		return []domain.ValidationIssue{{Layer: layer, ElementID: el.ID, Message: err.Error()}}
	}

	issues := make([]domain.ValidationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		issues = append(issues, domain.ValidationIssue{
			Layer:     layer,
			ElementID: el.ID,
			Field:     field,
			Message:   fieldMessage(field, layer, fe),
		})
	}
	return issues
}

func danglingTargets(m *domain.Model, layer string, el *domain.Element) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for i, rel := range el.Relationships {
		if rel.Target == "" {
			continue
		}
		if _, _, ok := m.FindElement(rel.Target); !ok {
			issues = append(issues, domain.ValidationIssue{
				Layer:     layer,
				ElementID: el.ID,
				Field:     fmt.Sprintf("relationships[%d].target", i),
				Message:   fmt.Sprintf("%s target %q does not exist", rel.Type, rel.Target),
			})
		}
	}
	return issues
}

// fieldPath drops the struct name from the namespace: elementRecord.relationships[0].type → relationships[0].type.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(field, layer string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "layerid":
		return fmt.Sprintf("id must be prefixed with its layer %q", layer+".")
	default:
		return field + " is invalid"
	}
}
