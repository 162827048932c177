package lars

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateServiceName(t *testing.T) {
	valid := []string{
		"ok-name_1",
		"valid_name",
		"valid-name-123",
		"a",
		"ABC123",
		"my-service",
	}
	for _, name := range valid {
		if err := ValidateServiceName(name); err != nil {
			t.Errorf("ValidateServiceName(%q) = %v, want nil", name, err)
		}
	}

	t.Run("empty", func(t *testing.T) {
		err := ValidateServiceName("")
		var lenErr *NameLengthError
		if !errors.As(err, &lenErr) {
			t.Fatalf("expected NameLengthError, got %v", err)
		}
		if lenErr.Length != 0 {
			t.Errorf("Length = %d, want 0", lenErr.Length)
		}
	})

	t.Run("too long", func(t *testing.T) {
		err := ValidateServiceName(strings.Repeat("a", 65))
		var lenErr *NameLengthError
		if !errors.As(err, &lenErr) {
			t.Fatalf("expected NameLengthError, got %v", err)
		}
		if lenErr.Length != 65 {
			t.Errorf("Length = %d, want 65", lenErr.Length)
		}
	})

	t.Run("max length ok", func(t *testing.T) {
		if err := ValidateServiceName(strings.Repeat("a", 64)); err != nil {
			t.Errorf("64-char name rejected: %v", err)
		}
	})

	invalid := []string{
		"bad;name",
		"bad name",
		"name$(whoami)",
		"name`id`",
		"name|cat",
		"name&bg",
		"name>file",
		"name<file",
		"name'quoted'",
		"name\"quoted\"",
		"name\ttab",
		"name\nnewline",
		"name/slash",
	}
	for _, name := range invalid {
		if err := ValidateServiceName(name); !errors.Is(err, ErrNameCharacters) {
			t.Errorf("ValidateServiceName(%q) = %v, want ErrNameCharacters", name, err)
		}
	}
}

func TestValidateNotEmpty(t *testing.T) {
	if err := ValidateNotEmpty("hello"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, input := range []string{"", "   ", "\t\n"} {
		if err := ValidateNotEmpty(input); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("ValidateNotEmpty(%q) = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestSanitizeForShell(t *testing.T) {
	got, err := SanitizeForShell("hello world")
	if err != nil {
		t.Fatal(err)
	}
	if got != "'hello world'" {
		t.Errorf("SanitizeForShell(\"hello world\") = %q", got)
	}

	got, err = SanitizeForShell("plain")
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain" {
		t.Errorf("plain input should pass through unquoted, got %q", got)
	}

	if _, err := SanitizeForShell("hello\x00world"); !errors.Is(err, ErrNullByte) {
		t.Errorf("null byte input = %v, want ErrNullByte", err)
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"simple", "simple"},
		{"/var/log/app.log", "/var/log/app.log"},
		{"with space", "'with space'"},
		{"it's", `'it'\''s'`},
		{"a$b", "'a$b'"},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateServiceName(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"echo hello", "echo"},
		{"npm start", "npm"},
		{"/usr/bin/python script.py", "python"},
		{"", "service"},
		{"   ", "service"},
		{"PORT=3000 npm start", "npm"},
		{"NODE_ENV=production node app.js", "node"},
		{"FOO=bar BAZ=qux python app.py", "python"},
		{"PATH=/usr/bin /usr/local/bin/ruby script.rb", "ruby"},
		{"KEY=value", "service"},
		{"./configure --prefix=/usr", "configure"},
		{"npx vibe-kanban@latest", "vibe-kanban"},
		{"PORT=3000 npx vibe-kanban@latest", "vibe-kanban"},
		{"npx create-react-app my-app", "create-react-app"},
		{"npx -y cowsay hello", "cowsay"},
		{"bunx my-tool", "my-tool"},
		{"pnpx some-package@1.0.0", "some-package"},
		{"npx", "npx"},
		{"npx -y", "npx"},
		{"npx @org/tool@latest", "tool"},
	}
	for _, tt := range tests {
		if got := GenerateServiceName(tt.command); got != tt.want {
			t.Errorf("GenerateServiceName(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestGenerateServiceNameAlwaysValid(t *testing.T) {
	commands := []string{
		"test;evil",
		"rm -rf /",
		"a$(b)c",
		strings.Repeat("x", 200),
		strings.Repeat("é", 100),
		"héllo-wörld",
		"@latest",
	}
	for _, command := range commands {
		name := GenerateServiceName(command)
		if err := ValidateServiceName(name); err != nil {
			t.Errorf("generated name %q for %q fails validation: %v", name, command, err)
		}
	}
}
