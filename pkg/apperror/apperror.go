package apperror

import (
	"errors"
	"fmt"
)

// Kind classifica as falhas do núcleo. Toda operação de negócio retorna
// exatamente um destes tipos; a camada HTTP traduz para status codes.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindInsufficientStock
	KindOverpayment
	KindInsufficientCredit
	KindInternal
)

// Error é o erro padrão do núcleo, com mensagem voltada ao operador da
// loja e uma sugestão opcional de correção exibida pela UI.
type Error struct {
	Kind     Kind
	Message  string
	Solution string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is permite comparar erros pelo Kind com errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinelas por tipo, para uso com errors.Is.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "dados inválidos"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "registro não encontrado"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "transição de estado inválida"}
	ErrInsufficientStock  = &Error{Kind: KindInsufficientStock, Message: "estoque insuficiente"}
	ErrOverpayment        = &Error{Kind: KindOverpayment, Message: "pagamento excede o saldo da venda"}
	ErrInsufficientCredit = &Error{Kind: KindInsufficientCredit, Message: "crédito insuficiente"}
)

// Validation cria um erro de validação de entrada
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound cria um erro de registro inexistente
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict cria um erro de transição de estado ilegal
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// InsufficientStock cria um erro de saída que deixaria o estoque negativo
func InsufficientStock(message string) *Error {
	return &Error{Kind: KindInsufficientStock, Message: message}
}

// Overpayment cria um erro de pagamento acima do saldo devedor
func Overpayment(message string) *Error {
	return &Error{Kind: KindOverpayment, Message: message}
}

// InsufficientCredit cria um erro de consumo acima do saldo de crédito
func InsufficientCredit(message string) *Error {
	return &Error{Kind: KindInsufficientCredit, Message: message}
}

// Internal embrulha uma falha de infraestrutura
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// WithSolution devolve uma cópia do erro com a sugestão de correção
func (e *Error) WithSolution(solution string) *Error {
	clone := *e
	clone.Solution = solution
	return &clone
}

// KindOf extrai o Kind de um erro qualquer; erros desconhecidos são Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
