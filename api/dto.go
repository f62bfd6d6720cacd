package api

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"autocatalog/core"
	"autocatalog/service"
)

// datePattern is the only accepted wire format for date fields.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// newValidator builds the request validator with the rfc3339z rule
// used by every date field.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("rfc3339z", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})
	return v
}

type brandRequest struct {
	Name string `json:"name" validate:"required"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type engineRequest struct {
	Name     string  `json:"name" validate:"required"`
	Capacity float64 `json:"capacity" validate:"required,gt=0"`
	Type     string  `json:"type" validate:"required,oneof=PETROL DIESEL ELECTRIC"`
}

type modelRequest struct {
	Name               string `json:"name" validate:"required"`
	Generation         string `json:"generation" validate:"required"`
	StartManufacturing string `json:"startManufacturing" validate:"required,rfc3339z"`
	EndManufacturing   string `json:"endManufacturing" validate:"required,rfc3339z"`
	BrandID            int64  `json:"brandId" validate:"required,gte=1"`
}

type carCreateRequest struct {
	Color             string `json:"color" validate:"required"`
	SerialNumber      string `json:"serialNumber" validate:"required"`
	ManufacturingDate string `json:"manufacturingDate" validate:"required,rfc3339z"`
	Drive             string `json:"drive" validate:"required,oneof=ALL FRONT BACK"`
	ModelID           int64  `json:"modelId" validate:"required,gte=1"`
	EngineID          int64  `json:"engineId" validate:"required,gte=1"`
	CategoryID        int64  `json:"categoryId" validate:"required,gte=1"`
}

// carUpdateRequest carries the version the client read; a stale one is
// rejected with a conflict rather than silently overwriting.
type carUpdateRequest struct {
	carCreateRequest
	Version int64 `json:"version" validate:"required,gte=1"`
}

type authRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// fieldMessages maps Field.tag to the client-facing message. Unlisted
// combinations fall back to a generic message.
var fieldMessages = map[string]string{
	"Name.required":               "Name shouldn't be empty",
	"Generation.required":         "Generation shouldn't be empty",
	"StartManufacturing.required": "Start manufacturing date shouldn't be empty",
	"StartManufacturing.rfc3339z": "Start manufacturing date must be in ISO-8601 format (yyyy-MM-ddTHH:mm:ssZ)",
	"EndManufacturing.required":   "End manufacturing date shouldn't be empty",
	"EndManufacturing.rfc3339z":   "End manufacturing date must be in ISO-8601 format (yyyy-MM-ddTHH:mm:ssZ)",
	"BrandID.required":            "Brand shouldn't be empty",
	"Color.required":              "Color shouldn't be empty",
	"SerialNumber.required":       "Serial number shouldn't be empty",
	"ManufacturingDate.required":  "Manufacturing date shouldn't be empty",
	"ManufacturingDate.rfc3339z":  "Manufacturing date must be in ISO-8601 format (yyyy-MM-ddTHH:mm:ssZ)",
	"ModelID.required":            "Model shouldn't be empty",
	"EngineID.required":           "Engine shouldn't be empty",
	"CategoryID.required":         "Category shouldn't be empty",
	"Drive.required":              "Drive shouldn't be empty",
	"Capacity.required":           "Capacity shouldn't be empty",
	"Type.required":               "Type shouldn't be empty",
	"Email.required":              "Email shouldn't be empty",
	"Password.required":           "Password shouldn't be empty",
}

// validateRequest runs struct validation and renders the per-field
// message list, empty when the request is valid.
func (a *API) validateRequest(dst interface{}) []string {
	err := a.validate.Struct(dst)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"invalid request body"}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, found := fieldMessages[fe.Field()+"."+fe.Tag()]; found {
			messages = append(messages, msg)
			continue
		}
		messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return messages
}

// parseWireDate parses a date already vetted by the rfc3339z rule.
func parseWireDate(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func (req modelRequest) toInput() (service.ModelInput, error) {
	start, err := parseWireDate(req.StartManufacturing)
	if err != nil {
		return service.ModelInput{}, err
	}
	end, err := parseWireDate(req.EndManufacturing)
	if err != nil {
		return service.ModelInput{}, err
	}
	return service.ModelInput{
		Name:               req.Name,
		Generation:         req.Generation,
		StartManufacturing: start,
		EndManufacturing:   end,
		BrandID:            req.BrandID,
	}, nil
}

func (req carCreateRequest) toInput() (service.CarInput, error) {
	manufactured, err := parseWireDate(req.ManufacturingDate)
	if err != nil {
		return service.CarInput{}, err
	}
	return service.CarInput{
		Color:             req.Color,
		SerialNumber:      req.SerialNumber,
		ManufacturingDate: manufactured,
		Drive:             core.DriveType(req.Drive),
		ModelID:           req.ModelID,
		EngineID:          req.EngineID,
		CategoryID:        req.CategoryID,
	}, nil
}
