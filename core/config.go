package core

import (
	"fmt"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env               string   `yaml:"env" env:"ENV" env-default:"local"`
	TelegramApiKey    string   `yaml:"telegram_api_key" env:"TELEGRAM_API_KEY" env-default:""`
	Username          string   `yaml:"username" env:"BOT_USERNAME" env-default:""`
	ApiUrl            string   `yaml:"api_url" env:"API_URL" env-default:"https://lexica.qewertyy.dev"`
	Model             string   `yaml:"model" env:"MODEL" env-default:"gemini"`
	DownloadDir       string   `yaml:"download_dir" env:"DOWNLOAD_DIR" env-default:"./downloads"`
	MaxImageSize      int64    `yaml:"max_image_size" env-default:"5242880"`
	AllowedImageTypes []string `yaml:"allowed_image_types" env-default:"image/png,image/jpeg,image/jpg"`
	Mongo             struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	}
}

var instance *Config
var once sync.Once

func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}

func MustLoad(path string) *Config {
	conf, err := GetConfig(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return conf
}
