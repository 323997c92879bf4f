// internal/i18n/i18n.go
package i18n

import "strings"

// DefaultLocale is used whenever a request carries no locale prefix.
const DefaultLocale = "ar"

// Locales lists the supported UI locales in presentation order.
var Locales = []string{"ar", "en"}

var localeNames = map[string]string{
	"ar": "العربية",
	"en": "English",
}

// text directions per locale
var directions = map[string]string{
	"ar": "rtl",
	"en": "ltr",
}

// Supported reports whether a locale has a message catalog.
func Supported(locale string) bool {
	_, ok := messages[locale]
	return ok
}

// Name returns the locale's self-described display name.
func Name(locale string) string {
	if n, ok := localeNames[locale]; ok {
		return n
	}
	return locale
}

// Dir returns "rtl" or "ltr" for a locale.
func Dir(locale string) string {
	if d, ok := directions[locale]; ok {
		return d
	}
	return "ltr"
}

// T resolves a message key for a locale, falling back to the default
// locale's catalog and finally to the key itself.
func T(locale, key string) string {
	if m, ok := messages[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLocale][key]; ok {
		return s
	}
	return key
}

// SplitLocale strips a leading supported-locale segment from a request
// path. "/en/dashboard" yields ("en", "/dashboard"); "/dashboard"
// yields ("", "/dashboard").
func SplitLocale(path string) (locale, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, tail, _ := strings.Cut(trimmed, "/")
	if !Supported(seg) {
		return "", path
	}
	if tail == "" {
		return seg, "/"
	}
	return seg, "/" + tail
}

var messages = map[string]map[string]string{
	"en": {
		"app.title":            "GFSAMS Portal",
		"home.welcome":         "Welcome to the GFSAMS Portal",
		"home.tagline":         "Sign in to manage your account and services.",
		"home.signin":          "Sign in",
		"home.dashboard":       "Go to dashboard",
		"signin.title":         "Sign in",
		"signin.username":      "Username",
		"signin.password":      "Password",
		"signin.submit":        "Sign in",
		"signin.invalid":       "Invalid username or password.",
		"dashboard.title":      "Dashboard",
		"dashboard.welcome":    "Welcome back",
		"dashboard.roles":      "Roles",
		"dashboard.expires":    "Session valid until",
		"dashboard.signout":    "Sign out",
		"dashboard.no_roles":   "No roles assigned",
	},
	"ar": {
		"app.title":            "بوابة GFSAMS",
		"home.welcome":         "مرحبًا بكم في بوابة GFSAMS",
		"home.tagline":         "سجّل الدخول لإدارة حسابك وخدماتك.",
		"home.signin":          "تسجيل الدخول",
		"home.dashboard":       "الانتقال إلى لوحة التحكم",
		"signin.title":         "تسجيل الدخول",
		"signin.username":      "اسم المستخدم",
		"signin.password":      "كلمة المرور",
		"signin.submit":        "تسجيل الدخول",
		"signin.invalid":       "اسم المستخدم أو كلمة المرور غير صحيحة.",
		"dashboard.title":      "لوحة التحكم",
		"dashboard.welcome":    "مرحبًا بعودتك",
		"dashboard.roles":      "الأدوار",
		"dashboard.expires":    "الجلسة صالحة حتى",
		"dashboard.signout":    "تسجيل الخروج",
		"dashboard.no_roles":   "لا توجد أدوار",
	},
}
