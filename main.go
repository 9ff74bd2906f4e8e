/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/rag-studio-be/cmd"
)

func main() {
	// A missing .env is fine, the config layer has defaults.
	_ = godotenv.Load()
	cmd.Execute()
}
