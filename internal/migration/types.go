package migration

import "time"

// Direction migration yönü
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Migration tek bir şema migration'ı
type Migration struct {
	Version      int64      `json:"version"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	UpSQL        string     `json:"-"`
	DownSQL      string     `json:"-"`
	UpChecksum   string     `json:"upChecksum"`
	DownChecksum string     `json:"downChecksum,omitempty"`
	HasDownFile  bool       `json:"hasDownFile"`
	Applied      bool       `json:"applied"`
	AppliedAt    *time.Time `json:"appliedAt,omitempty"`
}

// Status migration'ların veritabanıyla karşılaştırılmış durumu
type Status struct {
	CurrentVersion int64       `json:"currentVersion"`
	Migrations     []Migration `json:"migrations"`
	AppliedCount   int         `json:"appliedCount"`
	PendingCount   int         `json:"pendingCount"`
	LastAppliedAt  *time.Time  `json:"lastAppliedAt,omitempty"`
}

// Result bir migration'ın çalıştırılma sonucu
type Result struct {
	Version       int64         `json:"version"`
	Name          string        `json:"name"`
	Direction     Direction     `json:"direction"`
	Statements    int           `json:"statements"`
	ExecutionTime time.Duration `json:"executionTime"`
}

// Config runner ayarları
type Config struct {
	TableName          string
	ValidateChecksums  bool          // Uygulanmış dosya değiştiyse hata ver
	RequireDownFiles   bool          // DOWN dosyası olmayan migration'ı reddet
	TransactionTimeout time.Duration // Migration başına
	CreatedBy          string
}

// DefaultConfig uygulama başlangıcı için ayarlar
func DefaultConfig() *Config {
	return &Config{
		TableName:          "schema_migrations",
		ValidateChecksums:  true,
		RequireDownFiles:   false,
		TransactionTimeout: 15 * time.Minute,
		CreatedBy:          "system",
	}
}

// CLIConfig cmd/migrate için daha sıkı ayarlar
func CLIConfig() *Config {
	c := DefaultConfig()
	c.RequireDownFiles = true
	c.TransactionTimeout = 30 * time.Minute
	c.CreatedBy = "cli"
	return c
}
