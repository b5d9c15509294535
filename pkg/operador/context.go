package operador

import "context"

type contextKey struct{}

// Padrao é o operador usado quando a requisição não identifica ninguém.
const Padrao = "sistema"

// WithOperador armazena o operador no contexto
func WithOperador(ctx context.Context, nome string) context.Context {
	return context.WithValue(ctx, contextKey{}, nome)
}

// GetOperador retorna o operador do contexto, ou o padrão
func GetOperador(ctx context.Context) string {
	if nome, ok := ctx.Value(contextKey{}).(string); ok && nome != "" {
		return nome
	}
	return Padrao
}
