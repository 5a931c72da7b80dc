package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveSwagger(cfg SwaggerConfig, remoteAddr string) int {
	r := gin.New()
	r.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name   string
		cfg    SwaggerConfig
		remote string
		want   int
	}{
		{"disabled", SwaggerConfig{}, "10.0.0.1:1234", http.StatusNotFound},
		{"open", SwaggerConfig{Enabled: true}, "10.0.0.1:1234", http.StatusOK},
		{"exact ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.1:1234", http.StatusOK},
		{"cidr", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, "192.168.4.2:1234", http.StatusOK},
		{"outside allowlist", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, "10.0.0.1:1234", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serveSwagger(tt.cfg, tt.remote))
		})
	}
}

func TestAllowList(t *testing.T) {
	list := parseAllowList([]string{" 10.0.0.1 ", "2001:db8::/32", "not-an-ip", "172.16.0.0/12"})
	assert.Len(t, list, 3)
	assert.True(t, list.contains("10.0.0.1"))
	assert.True(t, list.contains("::ffff:10.0.0.1"), "IPv4-mapped addresses match their IPv4 entry")
	assert.True(t, list.contains("2001:db8::42"))
	assert.True(t, list.contains("172.31.255.1"))
	assert.False(t, list.contains("10.0.0.2"))
	assert.False(t, list.contains(""))
}
