package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database   *dbConfig
	Service    *svcConfig
	Pipeline   *pipelineConfig
	Pose       *poseConfig
	Classifier *classifierConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"sqlite"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"form_analyzer.db"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"FORM_ANALYZER_ADDRESS" default:":8080"`
	MetricsAddress string `envconfig:"FORM_ANALYZER_METRICS_ADDRESS" default:":8081"`
	LogLevel       string `envconfig:"FORM_ANALYZER_LOG_LEVEL" default:"info"`
	Workers        int    `envconfig:"FORM_ANALYZER_WORKERS" default:"4"`
	QueueSize      int    `envconfig:"FORM_ANALYZER_QUEUE_SIZE" default:"32"`
}

type pipelineConfig struct {
	SampleEveryN int    `envconfig:"FORM_ANALYZER_SAMPLE_EVERY_N" default:"3"`
	MaxFrames    int    `envconfig:"FORM_ANALYZER_MAX_FRAMES" default:"30"`
	Selection    string `envconfig:"FORM_ANALYZER_PERSON_SELECTION" default:"highest-confidence"`
	Strategy     string `envconfig:"FORM_ANALYZER_CLASSIFIER_STRATEGY" default:"rule"`
	KeepFrames   bool   `envconfig:"FORM_ANALYZER_KEEP_FRAMES" default:"true"`
}

type poseConfig struct {
	URL     string `envconfig:"FORM_ANALYZER_POSE_URL" default:"http://localhost:5001"`
	Timeout int    `envconfig:"FORM_ANALYZER_POSE_TIMEOUT_SECONDS" default:"30"`
}

type classifierConfig struct {
	URL     string `envconfig:"FORM_ANALYZER_CLASSIFIER_URL" default:"http://localhost:5002"`
	Timeout int    `envconfig:"FORM_ANALYZER_CLASSIFIER_TIMEOUT_SECONDS" default:"10"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config populated with defaults only, ignoring the
// environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Type: "sqlite", Name: ":memory:"},
		Service:  &svcConfig{Address: ":8080", MetricsAddress: ":8081", LogLevel: "info", Workers: 2, QueueSize: 8},
		Pipeline: &pipelineConfig{
			SampleEveryN: 3,
			MaxFrames:    30,
			Selection:    "highest-confidence",
			Strategy:     "rule",
			KeepFrames:   true,
		},
		Pose:       &poseConfig{URL: "http://localhost:5001", Timeout: 30},
		Classifier: &classifierConfig{URL: "http://localhost:5002", Timeout: 10},
	}
}
