package cliente

import (
	"context"
)

// Repository define a interface para operações de repositório de clientes
type Repository interface {
	// Create cria um novo cliente
	Create(ctx context.Context, c *Cliente) error

	// FindByID busca um cliente pelo ID
	FindByID(ctx context.Context, id string) (*Cliente, error)

	// List lista os clientes com paginação
	List(ctx context.Context, limit, offset int) ([]*Cliente, error)

	// Exists verifica se um cliente existe
	Exists(ctx context.Context, id string) (bool, error)
}
