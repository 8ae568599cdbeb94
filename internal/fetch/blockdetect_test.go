package fetch

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		body   string
		want   BlockType
	}{
		{"ok page mentioning captcha", 200, nil, "our captcha docs", BlockNone},
		{"cloudflare header", 403, http.Header{"Cf-Ray": []string{"x"}}, "denied", BlockCloudflare},
		{"cloudflare server", 503, http.Header{"Server": []string{"cloudflare"}}, "", BlockCloudflare},
		{"browser check", 503, nil, "Checking your browser before accessing", BlockCloudflare},
		{"captcha", 429, nil, "Please complete the reCAPTCHA", BlockCaptcha},
		{"js shell", 403, nil, "<noscript>Enable JavaScript</noscript>", BlockJSShell},
		{"plain forbidden", 403, nil, "Forbidden", BlockNone},
		{"not found", 404, nil, "captcha", BlockNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.header
			if h == nil {
				h = http.Header{}
			}
			blocked, kind := DetectBlock(&http.Response{StatusCode: tt.status, Header: h}, []byte(tt.body))
			assert.Equal(t, tt.want != BlockNone, blocked)
			assert.Equal(t, tt.want, kind)
		})
	}
	blocked, _ := DetectBlock(nil, nil)
	assert.False(t, blocked)
}
