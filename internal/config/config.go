package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
)

const (
	localConfigFile = "config.yml"
	xdgConfigFile   = "tictactoe/config.yml"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis   `yaml:"redis"`
	Session    Session `yaml:"session"`
}

type Redis struct {
	Host string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL  time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

type Session struct {
	HumanMark string `yaml:"human-mark" env:"HUMAN_MARK" env-default:"X"`
}

// MustLoad - load all configurations from the file at path, or from the
// environment alone when path is empty.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return config, nil
}

// ResolvePath picks the config file: an explicit path wins, then ./config.yml,
// then tictactoe/config.yml in the XDG config dirs. Empty means none was found.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}

	path, err := xdg.SearchConfigFile(xdgConfigFile)
	if err != nil {
		return ""
	}

	return path
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

var ErrEmptyMark = errors.New("human mark is empty")

// Mark returns the side the human plays in the text session.
func (that *Session) Mark() (board.Mark, error) {
	if that.HumanMark == "" {
		return board.Empty, ErrEmptyMark
	}

	mark := board.Mark(strings.ToUpper(that.HumanMark))
	if !mark.IsSide() {
		return board.Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, that.HumanMark)
	}

	return mark, nil
}
