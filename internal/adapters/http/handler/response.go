package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response はフロントエンドの ApiResponse と対応するレスポンス封筒です。
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, result any) {
	c.JSON(status, Response{Success: true, Message: message, Result: result})
}

// respondError はエラーをステータスコードに変換して返します。500 の場合は内部エラーの詳細を隠します。
func respondError(c *gin.Context, err error) {
	status := toHTTPStatus(err)
	_ = c.Error(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}
