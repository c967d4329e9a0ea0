package main

import (
	"bytes"
	"flag"
	"os"
	"testing"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

// ----------------- Tests for printBuildInfo -----------------

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Set build info variables
	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	// Check if all expected strings are present
	if !contains(output, "version v1.0.0") ||
		!contains(output, "commit abcd1234") ||
		!contains(output, "build 2025-09-26") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		loginAttemptLimit, loginAttemptWindowSecond,
		kafkaBrokers, kafkaTopic,
		scriptsDir, scriptsSudo, provisionTimeoutSecond,
		logLevel,
		jwtSecret, jwtExp,
		err := parseConfig("nonexistent.env")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appHost != "0.0.0.0" {
		t.Errorf("expected default app host, got %s", appHost)
	}
	if appPort != "3001" {
		t.Errorf("expected default app port, got %s", appPort)
	}
	if pgHost != "localhost" || pgPort != 5432 {
		t.Errorf("expected default postgres host/port, got %s:%d", pgHost, pgPort)
	}
	if pgUser != "user" || pgPassword != "password" || pgDB != "database" {
		t.Errorf("expected default postgres credentials, got %s/%s/%s", pgUser, pgPassword, pgDB)
	}
	if pgMaxOpenConns != 16 || pgMaxIdleConns != 8 {
		t.Errorf("expected default postgres pool settings, got %d/%d", pgMaxOpenConns, pgMaxIdleConns)
	}
	if redisHost != "localhost" || redisPort != 6379 || redisDB != 0 || redisPassword != "" {
		t.Errorf("expected default redis settings, got %s:%d db=%d", redisHost, redisPort, redisDB)
	}
	if loginAttemptLimit != 10 || loginAttemptWindowSecond != 900 {
		t.Errorf("expected default login attempt settings, got %d/%d", loginAttemptLimit, loginAttemptWindowSecond)
	}
	if kafkaBrokers != "" || kafkaTopic != "tenant-events" {
		t.Errorf("expected default kafka settings, got %q/%q", kafkaBrokers, kafkaTopic)
	}
	if scriptsDir != "./nextcloud" || !scriptsSudo || provisionTimeoutSecond != 300 {
		t.Errorf("expected default script settings, got %s sudo=%v timeout=%d", scriptsDir, scriptsSudo, provisionTimeoutSecond)
	}
	if logLevel != "info" {
		t.Errorf("expected default log level, got %s", logLevel)
	}
	if jwtSecret != "my_super_secret_key" || jwtExp != 3600 {
		t.Errorf("expected default jwt settings, got %s/%d", jwtSecret, jwtExp)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	resetEnv()

	os.Setenv("APP_PORT", "8080")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("LOGIN_ATTEMPT_LIMIT", "3")
	os.Setenv("TENANT_SCRIPTS_SUDO", "false")
	os.Setenv("KAFKA_BROKERS", "localhost:9092")
	defer resetEnv()

	_, appPort, _, pgPort, _, _, _,
		_, _,
		_, _, _, _,
		loginAttemptLimit, _,
		kafkaBrokers, _,
		_, scriptsSudo, _,
		_,
		_, _,
		err := parseConfig("nonexistent.env")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appPort != "8080" {
		t.Errorf("expected overridden app port, got %s", appPort)
	}
	if pgPort != 5433 {
		t.Errorf("expected overridden postgres port, got %d", pgPort)
	}
	if loginAttemptLimit != 3 {
		t.Errorf("expected overridden login attempt limit, got %d", loginAttemptLimit)
	}
	if scriptsSudo {
		t.Errorf("expected sudo disabled")
	}
	if kafkaBrokers != "localhost:9092" {
		t.Errorf("expected overridden kafka brokers, got %s", kafkaBrokers)
	}
}

func TestParseConfig_InvalidNumber(t *testing.T) {
	resetEnv()

	os.Setenv("POSTGRES_PORT", "not-a-number")
	defer resetEnv()

	_, _, _, _, _, _, _,
		_, _,
		_, _, _, _,
		_, _,
		_, _,
		_, _, _,
		_,
		_, _,
		err := parseConfig("nonexistent.env")

	if err == nil {
		t.Fatal("expected error for invalid POSTGRES_PORT")
	}
}
