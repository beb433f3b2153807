package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	timex "github.com/jpbalagtas/kusinakit/internal/pkg/time"
)

type ServerOptions struct {
	URL             string         `json:"url,omitempty"`
	Port            int            `json:"port,omitempty"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
	MaxBodyBytes    int64          `json:"max_body_bytes,omitempty"`
}

type DBOptions struct {
	Driver          string         `json:"driver,omitempty"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

type MongoOptions struct {
	Database       string         `json:"database,omitempty"`
	ConnectTimeout timex.Duration `json:"connect_timeout,omitempty"`
	PingTimeout    timex.Duration `json:"ping_timeout,omitempty"`
}

// StoreOptions selects and parameterizes the persistence adapters.
// Records is "mongo" or "postgres"; Files is "gridfs" or "disk".
type StoreOptions struct {
	Records    string         `json:"records,omitempty"`
	Files      string         `json:"files,omitempty"`
	Collection string         `json:"collection,omitempty"`
	Bucket     string         `json:"bucket,omitempty"`
	FilesDir   string         `json:"files_dir,omitempty"`
	OpTimeout  timex.Duration `json:"op_timeout,omitempty"`
}

type UploadOptions struct {
	Dir      string `json:"dir,omitempty"`
	MaxBytes int64  `json:"max_bytes,omitempty"`
}

type Options struct {
	Server *ServerOptions `json:"server,omitempty"`
	DB     *DBOptions     `json:"db,omitempty"`
	Mongo  *MongoOptions  `json:"mongo,omitempty"`
	Store  *StoreOptions  `json:"store,omitempty"`
	Upload *UploadOptions `json:"upload,omitempty"`
}

func (o *Options) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("server", o.Server),
		slog.Any("db", o.DB),
		slog.Any("mongo", o.Mongo),
		slog.Any("store", o.Store),
		slog.Any("upload", o.Upload),
	)
}

func New(cfgFile string) (*Options, error) {
	slog.Info("Loading config...")
	opts, err := parseCfgFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := overrideWithEnv(opts); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", opts))
	return opts, nil
}

func parseCfgFile(cfgFile string) (*Options, error) {
	cfgFile = filepath.Clean(cfgFile)
	configFile, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	var opts Options
	if err := json.Unmarshal(configFile, &opts); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return &opts, nil
}

func overrideWithEnv(opts *Options) error {
	if url, ok := os.LookupEnv("URL"); ok {
		opts.Server.URL = url
	}

	if portStr, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return err
		}
		opts.Server.Port = port
	}

	if records, ok := os.LookupEnv("STORE_RECORDS"); ok {
		opts.Store.Records = records
	}

	if files, ok := os.LookupEnv("STORE_FILES"); ok {
		opts.Store.Files = files
	}
	return nil
}
