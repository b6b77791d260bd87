// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
)

// EndpointSecurityConfig maps "METHOD /path/template" routes to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health
	"GET /health": SecurityPublic,

	// Auth - Public
	"POST /api/auth/register": SecurityPublic,
	"POST /api/auth/login":    SecurityPublic,

	// Auth - Refresh Protected
	"POST /api/auth/refresh-token": SecurityRefresh,

	// Organizations - Public
	"GET /api/himpunan":             SecurityPublic,
	"GET /api/himpunan/{id:[0-9]+}": SecurityPublic,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
