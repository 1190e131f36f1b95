// internal/cli/config.go
package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName = "mutsim"
	envPrefix      = "MUTSIM"

	rateKey      = "rate"
	seedKey      = "seed"
	alphabetKey  = "alphabet"
	formatKey    = "format"
	blockSizeKey = "block-size"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"

	defaultRate        = 0.0
	defaultSeed        = int64(42)
	defaultAlphabet    = "binary"
	defaultFormat      = "text"
	defaultLogFilename = ""
	defaultLogLevel    = "info"
)

func initConfig() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(rateKey, defaultRate)
	viper.SetDefault(seedKey, defaultSeed)
	viper.SetDefault(alphabetKey, defaultAlphabet)
	viper.SetDefault(formatKey, defaultFormat)
	viper.SetDefault(blockSizeKey, 0)
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, 10)
	viper.SetDefault(logMaxBackupsKey, 3)
	viper.SetDefault(logMaxAgeKey, 28)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}
	}
}

func bindFlag(flag *pflag.Flag, key string) {
	_ = viper.BindPFlag(key, flag)
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// configureLogger routes slog to a rotating log file. With no file
// configured, logging stays disabled so stdout output remains clean for
// piping.
func configureLogger(verbose bool) {
	path := viper.GetString(logFilenameKey)
	if strings.TrimSpace(path) == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})))
		return
	}
	level := parseLevel(viper.GetString(logLevelKey))
	if verbose {
		level = slog.LevelDebug
	}
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
	}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
