package requests

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/Lelo88/request-admin/internal/model"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput = errors.New("invalid input")
	ErrorNotFound     = errors.New("request not found")
)

// InvalidFieldsError detalla qué campos no pasaron la validación.
// errors.Is(err, ErrorInvalidInput) sigue funcionando.
type InvalidFieldsError struct {
	Fields []string
}

func (err *InvalidFieldsError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(err.Fields, ", "))
}

func (err *InvalidFieldsError) Unwrap() error {
	return ErrorInvalidInput
}

// RepositoryAPI es lo que el service necesita de la persistencia.
type RepositoryAPI interface {
	Insert(ctx context.Context, request model.Request) (model.Request, error)
	Update(ctx context.Context, request model.Request) (model.Request, error)
	List(ctx context.Context, query string, limit, offset int) ([]model.Request, error)
	Count(ctx context.Context, query string) (int, error)
	Delete(ctx context.Context, id int64) error
}

// Service contiene las reglas de negocio de pedidos.
type Service struct {
	repository RepositoryAPI
	log        *zap.Logger
}

// NewService crea un service de pedidos. log puede ser nil.
func NewService(repository RepositoryAPI, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repository: repository, log: log}
}

// List devuelve una página y el total para la paginación.
func (service *Service) List(ctx context.Context, page, limit int, nameQuery string) ([]model.Request, int, error) {
	// page-1 > MaxInt/limit haría desbordar el offset.
	if page < 1 || limit < 1 || page-1 > math.MaxInt/limit {
		return nil, 0, ErrorInvalidInput
	}

	nameQuery = strings.TrimSpace(nameQuery)
	offset := (page - 1) * limit

	items, err := service.repository.List(ctx, nameQuery, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repository.Count(ctx, nameQuery)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Save crea el pedido si no trae id y lo actualiza si lo trae.
// Devuelve el registro canónico y si fue una creación.
func (service *Service) Save(ctx context.Context, request model.Request) (model.Request, bool, error) {
	request.Name = strings.TrimSpace(request.Name)
	request.Type = strings.TrimSpace(request.Type)

	if err := model.Validate(request); err != nil {
		return model.Request{}, false, &InvalidFieldsError{Fields: model.FieldNames(err)}
	}

	if request.IsNew() {
		saved, err := service.repository.Insert(ctx, request)
		if err != nil {
			return model.Request{}, false, err
		}
		service.log.Info("request created", zap.Int64("id", *saved.ID), zap.String("name", saved.Name))
		return saved, true, nil
	}

	if *request.ID < 1 {
		return model.Request{}, false, ErrorInvalidInput
	}

	saved, err := service.repository.Update(ctx, request)
	if err != nil {
		return model.Request{}, false, err
	}
	service.log.Info("request updated", zap.Int64("id", *saved.ID))
	return saved, false, nil
}

// Delete elimina un pedido por id.
func (service *Service) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrorInvalidInput
	}
	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}
	service.log.Info("request deleted", zap.Int64("id", id))
	return nil
}
