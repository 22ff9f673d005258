package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// EnsureUTF8Body 将非 UTF-8 的请求体按 GBK 解码为 UTF-8
// Windows 中文终端下 curl 提交的标题通常是 GBK 编码，
// 不转换的话标题长度按字符计算会出错
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		_ = c.Request.Body.Close()
		if err != nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		restoreBody(c, normalizeUTF8(raw))
		c.Next()
	}
}

// normalizeUTF8 返回 UTF-8 编码的请求体，无法转换时原样返回
func normalizeUTF8(raw []byte) []byte {
	if len(raw) == 0 || utf8.Valid(raw) {
		return raw
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), simplifiedchinese.GBK.NewDecoder()))
	if err != nil || !utf8.Valid(decoded) {
		return raw
	}
	return decoded
}

func restoreBody(c *gin.Context, body []byte) {
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Request.ContentLength = int64(len(body))
}
