package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "created_at", cfg.DB.OrderTimeColumn)
	assert.Equal(t, "16:50", cfg.Business.ShiftCutoff)
	assert.Equal(t, 200, cfg.Business.CupBaseline)
	assert.Equal(t, 7, cfg.Business.ClosingLookbackDays)
	assert.Equal(t, []string{"completed", "cancelled"}, cfg.Business.Transitions["pending"])
}

func TestLoadConfigFromDeployDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "deploy"), 0o755))
	yaml := `
db:
  driver: memory
  order_time_column: createdAt
  order_columns:
    payment_method: paymentMethod
business:
  shift_cutoff: "17:00"
  cup_baseline: 150
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deploy", "config.yaml"), []byte(yaml), 0o644))
	chdir(t, dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "createdAt", cfg.DB.OrderTimeColumn)
	assert.Equal(t, "paymentMethod", cfg.DB.OrderColumns["payment_method"])
	assert.Equal(t, "17:00", cfg.Business.ShiftCutoff)
	assert.Equal(t, 150, cfg.Business.CupBaseline)
	// untouched keys keep their defaults
	assert.Equal(t, 300, cfg.Business.StandardPrice)
}

func TestLoadConfigEnvOverridesNestedKeys(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DRINKSTAND_DB_DRIVER", "memory")
	t.Setenv("DRINKSTAND_DB_DSN", "pos:secret@tcp(db:3306)/drinkstand?parseTime=true")
	t.Setenv("DRINKSTAND_BUSINESS_CUP_BASELINE", "150")
	t.Setenv("DRINKSTAND_SERVER_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "pos:secret@tcp(db:3306)/drinkstand?parseTime=true", cfg.DB.DSN)
	assert.Equal(t, 150, cfg.Business.CupBaseline)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestDBColumns(t *testing.T) {
	tests := []struct {
		name string
		cfg  DBConfig
		want map[string]string
	}{
		{
			name: "time column only",
			cfg:  DBConfig{OrderTimeColumn: "createdAt"},
			want: map[string]string{"created_at": "createdAt"},
		},
		{
			name: "explicit mapping wins",
			cfg: DBConfig{
				OrderTimeColumn: "created_at",
				OrderColumns:    map[string]string{"created_at": "createdAt", "payment_method": "paymentMethod"},
			},
			want: map[string]string{"created_at": "createdAt", "payment_method": "paymentMethod"},
		},
		{
			name: "nothing configured",
			cfg:  DBConfig{},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Columns())
		})
	}
}

func TestBusinessLocation(t *testing.T) {
	loc := BusinessConfig{UTCOffsetHours: 9}.Location()

	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 9*3600, offset)
	assert.Equal(t, "UTC+9", loc.String())
}
