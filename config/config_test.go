package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
llms:
  claude:
    type: anthropic
    api_key: ${TEST_ANTHROPIC_KEY:-sk-test-123}
agents:
  assistant:
    llm: claude
sessions:
  - id: fs
    transport: stdio
    command: mcp-server-filesystem
`

func TestLoadConfigFromString_ExpandsEnvAndValidates(t *testing.T) {
	cfg, err := LoadConfigFromString(validYAML)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.LLMs["claude"].APIKey)
	assert.NotZero(t, cfg.Agents["assistant"].MaxIterations, "expected SetDefaults to have filled MaxIterations")
}

func TestLoadConfigFromString_RejectsUnknownAgentLLM(t *testing.T) {
	bad := `
agents:
  a:
    llm: nonexistent
`
	_, err := LoadConfigFromString(bad)
	assert.Error(t, err, "expected validation to fail for an agent referencing an unknown llm")
}

func TestLoadConfigFromString_RejectsSequentialWorkflowWithUnknownAgent(t *testing.T) {
	bad := `
llms:
  m:
    type: mock
agents:
  a:
    llm: m
workflows:
  pipeline:
    type: sequential
    agents: ["a", "ghost"]
`
	_, err := LoadConfigFromString(bad)
	assert.Error(t, err, "expected validation to fail for a workflow referencing an unknown agent")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path.yaml")
	assert.Error(t, err, "expected an error for a missing config file")
}

func TestExpandEnvVars_SimpleAndBraced(t *testing.T) {
	os.Setenv("AGENTHOSTD_TEST_VAR", "value123")
	defer os.Unsetenv("AGENTHOSTD_TEST_VAR")
	assert.Equal(t, "value123", expandEnvVars("${AGENTHOSTD_TEST_VAR}"))
	assert.Equal(t, "value123", expandEnvVars("$AGENTHOSTD_TEST_VAR"))
}
