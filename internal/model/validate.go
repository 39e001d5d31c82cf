package model

import (
	"errors"
	"reflect"
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldLabels traduce campos del struct a las etiquetas que ve el usuario.
var fieldLabels = map[string]string{
	"Name":   "Nome",
	"Type":   "Tipo",
	"Amount": "Quantidade",
}

// Validate aplica las reglas de los tags sobre el pedido.
func Validate(request Request) error {
	return validate.Struct(request)
}

// FieldErrors devuelve un mensaje por campo inválido, indexado por la etiqueta visible.
// Un error que no es de validación se ignora.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	out := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		label := fieldLabels[fieldError.StructField()]
		if label == "" {
			label = fieldError.StructField()
		}
		out[label] = ruleMessage(fieldError)
	}
	return out
}

// FieldNames devuelve las etiquetas inválidas ordenadas, útil para mensajes cortos.
func FieldNames(err error) []string {
	fields := FieldErrors(err)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ruleMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "obrigatório"
	case "min":
		if fieldError.Kind() == reflect.String {
			return "mínimo de " + fieldError.Param() + " caracteres"
		}
		return "valor mínimo " + fieldError.Param()
	case "max":
		if fieldError.Kind() == reflect.String {
			return "máximo de " + fieldError.Param() + " caracteres"
		}
		return "valor máximo " + fieldError.Param()
	default:
		return "inválido"
	}
}
