package errors

// ErrorConfig error handling middleware ayarları
type ErrorConfig struct {
	ShowStackTrace  bool // Stack trace'i response'da göster (sadece development)
	EnablePanicLogs bool // Stack trace'i log'a yaz
	MaxErrorLength  int
	PanicMessage    string
}

// DefaultErrorConfig production için güvenli varsayılanlar
func DefaultErrorConfig() *ErrorConfig {
	return &ErrorConfig{
		ShowStackTrace:  false,
		EnablePanicLogs: true,
		MaxErrorLength:  200,
		PanicMessage:    "Sunucu hatası. Bu durum teknik ekibimize bildirildi.",
	}
}

// DevelopmentErrorConfig development ortamı için ayarlar
func DevelopmentErrorConfig() *ErrorConfig {
	config := DefaultErrorConfig()
	config.ShowStackTrace = true
	config.MaxErrorLength = 2000
	return config
}

// ConfigForEnv APP_ENV değerine göre ayar seçer
func ConfigForEnv(env string) *ErrorConfig {
	if env == "development" {
		return DevelopmentErrorConfig()
	}
	return DefaultErrorConfig()
}
