package items

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorNotFound = errors.New("item not found")
)

// Service orquesta cada operación como una unidad de trabajo:
// abre una sesión, opera, commitea y la libera siempre.
type Service struct {
	gateway Gateway
	log     *zap.Logger
}

// NewService crea un service de items.
func NewService(gateway Gateway, log *zap.Logger) *Service {
	return &Service{gateway: gateway, log: log}
}

// withSession abre una sesión y garantiza Close en todos los caminos,
// incluidos errores y panics.
func (service *Service) withSession(ctx context.Context, operation func(session Session) error) error {
	session, err := service.gateway.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// El rollback tiene que correr aunque el request se haya cancelado.
		if closeErr := session.Close(context.WithoutCancel(ctx)); closeErr != nil {
			service.log.Warn("failed to close session", zap.Error(closeErr))
		}
	}()

	return operation(session)
}

// Create inserta el item y devuelve la versión persistida (con id).
func (service *Service) Create(ctx context.Context, itemInput CreateItemInput) (Item, error) {
	item := itemInput.Item()

	err := service.withSession(ctx, func(session Session) error {
		if err := session.Add(ctx, &item); err != nil {
			return err
		}
		if err := session.Commit(ctx); err != nil {
			return err
		}
		return session.Refresh(ctx, &item)
	})
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}

	return item, nil
}

// List devuelve todos los items. Una tabla vacía no es error.
func (service *Service) List(ctx context.Context) ([]Item, error) {
	var items []Item

	err := service.withSession(ctx, func(session Session) error {
		var err error
		items, err = session.All(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Get obtiene un item por ID.
func (service *Service) Get(ctx context.Context, id int64) (Item, error) {
	var item Item

	err := service.withSession(ctx, func(session Session) error {
		found, err := session.Get(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return ErrorNotFound
		}
		item = *found
		return nil
	})
	if err != nil {
		return Item{}, err
	}

	return item, nil
}

// Update aplica sólo los campos presentes en el input.
// La existencia se verifica antes de escribir: un id inexistente no
// deja efectos.
func (service *Service) Update(ctx context.Context, id int64, itemInputUpdated UpdateItemInput) (Item, error) {
	var item Item

	err := service.withSession(ctx, func(session Session) error {
		found, err := session.Get(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return ErrorNotFound
		}
		// Sin campos no hay nada que escribir.
		if itemInputUpdated.Empty() {
			item = *found
			return nil
		}

		itemInputUpdated.ApplyTo(found)
		if err := session.Add(ctx, found); err != nil {
			return err
		}
		if err := session.Commit(ctx); err != nil {
			return err
		}
		if err := session.Refresh(ctx, found); err != nil {
			return err
		}
		item = *found
		return nil
	})
	if err != nil {
		return Item{}, err
	}

	return item, nil
}

// Delete elimina un item por ID (borrado físico).
func (service *Service) Delete(ctx context.Context, id int64) error {
	return service.withSession(ctx, func(session Session) error {
		found, err := session.Get(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return ErrorNotFound
		}

		if err := session.Delete(ctx, found); err != nil {
			return err
		}
		return session.Commit(ctx)
	})
}
