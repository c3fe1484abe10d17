package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Scopes the publish pipeline needs: products, collections, channels
const scopes = "read_products,write_products,read_publications,write_publications"

func main() {
	_ = godotenv.Load()

	domainFlag := flag.String("shop", os.Getenv("SHOPIFY_STORE_DOMAIN"), "Shop domain, e.g. my-shop.myshopify.com")
	clientIDFlag := flag.String("client-id", os.Getenv("SHOPIFY_CLIENT_ID"), "App client id")
	secretFlag := flag.String("client-secret", os.Getenv("SHOPIFY_CLIENT_SECRET"), "App client secret")
	codeFlag := flag.String("code", "", "Authorization code from the redirect (step 2)")
	flag.Parse()

	shopDomain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(*domainFlag), "https://"), "http://"), "/")
	clientID := strings.TrimSpace(*clientIDFlag)
	clientSecret := strings.TrimSpace(*secretFlag)

	if shopDomain == "" || clientID == "" || clientSecret == "" {
		fmt.Println("Usage: go run cmd/oauth-token/main.go --shop <shop-domain> --client-id <id> --client-secret <secret> [--code <code>]")
		fmt.Println("SHOPIFY_STORE_DOMAIN, SHOPIFY_CLIENT_ID and SHOPIFY_CLIENT_SECRET are read from the environment or .env when flags are omitted.")
		fmt.Println("\nNote: This requires manual authorization. Follow the steps:")
		fmt.Println("1. Run this script - it will give you an authorization URL")
		fmt.Println("2. Visit the URL in your browser and authorize")
		fmt.Println("3. Copy the 'code' from the redirect URL")
		fmt.Println("4. Run the script again with --code")
		os.Exit(1)
	}

	if code := strings.TrimSpace(*codeFlag); code != "" {
		accessToken, grantedScopes, err := exchangeCodeForToken(shopDomain, clientID, clientSecret, code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get access token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Access Token obtained (scopes: %s)\n\n", grantedScopes)
		fmt.Printf("Add this to your .env file:\n")
		fmt.Printf("SHOPIFY_STORE_DOMAIN=%s\n", shopDomain)
		fmt.Printf("SHOPIFY_ACCESS_TOKEN=%s\n", accessToken)
		return
	}

	query := url.Values{}
	query.Set("client_id", clientID)
	query.Set("scope", scopes)
	query.Set("redirect_uri", "urn:ietf:wg:oauth:2.0:oob")
	authURL := fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shopDomain, query.Encode())

	fmt.Printf("Step 1: Authorize the app\n\n")
	fmt.Printf("Visit this URL in your browser:\n")
	fmt.Printf("%s\n\n", authURL)
	fmt.Printf("After authorizing, you'll get a code.\n")
	fmt.Printf("Then run:\n")
	fmt.Printf("go run cmd/oauth-token/main.go --shop %s --client-id %s --client-secret <secret> --code <code>\n", shopDomain, clientID)
}

func exchangeCodeForToken(shopDomain, clientID, clientSecret, code string) (string, string, error) {
	data := url.Values{}
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("code", code)

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("https://%s/admin/oauth/access_token", shopDomain),
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("failed to get token: %s", string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "", err
	}
	return result.AccessToken, result.Scope, nil
}
