package main

import "github.com/ValentinKolb/dColl/cmd"

func main() {
	cmd.Execute()
}
