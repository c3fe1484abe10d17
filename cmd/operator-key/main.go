package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tyt2025/shopifytyt/internal/api/middleware"
)

func main() {
	apiKeyFlag := flag.String("api-key", "", "Operator API key to hash (a random one is generated when empty)")
	flag.Parse()

	apiKey := strings.TrimSpace(*apiKeyFlag)
	if apiKey == "" && flag.NArg() > 0 {
		apiKey = strings.TrimSpace(flag.Arg(0))
	}
	generated := false
	if apiKey == "" {
		buf := make([]byte, 24)
		if _, err := rand.Read(buf); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
			os.Exit(1)
		}
		apiKey = "op_" + hex.EncodeToString(buf)
		generated = true
	}

	hash, err := middleware.HashAPIKey(apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash key: %v\n", err)
		os.Exit(1)
	}

	if generated {
		fmt.Println("Operator API key (save it; it cannot be retrieved later):")
		fmt.Printf("  %s\n\n", apiKey)
	}
	fmt.Println("Set this in the server environment:")
	fmt.Printf("  OPERATOR_API_KEY_HASH='%s'\n", hash)
}
