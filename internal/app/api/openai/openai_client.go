package openai

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

var (
	once      sync.Once
	singleton *openai.Client
	initErr   error
)

// GetClient returns the process-wide OpenAI client, reading
// OPENAI_API_KEY on first use.
func GetClient() (*openai.Client, error) {
	once.Do(func() {
		token := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		if token == "" {
			initErr = fmt.Errorf("OPENAI_API_KEY environment variable not set")
			return
		}
		singleton = openai.NewClient(token)
	})
	return singleton, initErr
}
