package operador

import (
	"github.com/gin-gonic/gin"
)

// HeaderName é o cabeçalho que identifica o operador da loja na requisição.
// A autenticação em si é responsabilidade da camada externa; o núcleo só
// precisa do nome para registrar a autoria de movimentações e pagamentos.
const HeaderName = "X-Operador"

// Middleware extrai o operador do cabeçalho e o propaga no contexto da
// requisição
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		nome := c.GetHeader(HeaderName)
		if nome == "" {
			nome = Padrao
		}
		c.Set("operador", nome)
		c.Request = c.Request.WithContext(WithOperador(c.Request.Context(), nome))
		c.Next()
	}
}
