package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port int `env:"PORT" envDefault:"8080"`
	}

	DB struct {
		Path string `env:"DB_PATH" envDefault:"giveaway.db"`
	}

	Redis struct {
		// Optional; when empty the in-memory session store is used.
		Addr     string `env:"REDIS_ADDR" envDefault:""`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken    string  `env:"BOT_TOKEN,required"`
		BotUsername string  `env:"BOT_USERNAME" envDefault:""`
		AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`
	}

	Scheduler struct {
		// Policy for giveaways whose announcement time passed while the
		// process was down: finalize immediately on restore, or leave them
		// for operator cleanup.
		CatchUpMissed bool `env:"CATCH_UP_MISSED" envDefault:"false"`
	}
}

func Load() *Config {
	// A missing .env file is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// IsAdmin reports whether the user is listed in ADMIN_IDS.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
