package main

import "github.com/matthieukhl/drinkstand/internal/cmd"

func main() {
	cmd.Execute()
}
