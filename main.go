package main

import "github.com/frahmantamala/applicant-tracking/cmd"

func main() {
	cmd.Execute()
}
