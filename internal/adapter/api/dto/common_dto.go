package dto

// ErrorResponse representa a estrutura de resposta para erros. A solução,
// quando presente, é uma sugestão de correção exibida ao operador do caixa.
type ErrorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Solution string `json:"solution,omitempty"`
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, message, solution string) ErrorResponse {
	return ErrorResponse{
		Code:     code,
		Message:  message,
		Solution: solution,
	}
}

// PaginationParams representa os parâmetros de paginação
type PaginationParams struct {
	Page int
	Size int
}

// GetPagination retorna parâmetros de paginação com valores padrão
func GetPagination(page, size int) PaginationParams {
	if page <= 0 {
		page = 1
	}

	if size <= 0 {
		size = 20
	} else if size > 100 {
		size = 100 // Limitar a 100 itens por página
	}

	return PaginationParams{Page: page, Size: size}
}

// Offset retorna o deslocamento correspondente à página
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Size
}
