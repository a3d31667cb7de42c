package main

import (
	"github.com/MuneebAzher/smart-parking-allocator/api/cmd/parkingctl"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	parkingctl.Execute()
}
