//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

const (
	BINARY_NAME = "../bin/track-times"
	MAIN_PATH   = "../cmd/server"
	DATA_DIR    = "../data"
)

func Build() error {
	fmt.Println("Building server binary...")
	return runCmd("go", "build", "-o", BINARY_NAME, MAIN_PATH)
}

func Test() error {
	fmt.Println("Running tests...")
	return runCmd("go", "test", "-race", "../...")
}

func Vet() error {
	return runCmd("go", "vet", "../...")
}

// Run builds and starts the server against the local sqlite database.
func Run() error {
	mg.Deps(Build)
	fmt.Println("Starting server...")
	return runCmd(BINARY_NAME)
}

func Clean() {
	fmt.Println("Cleaning up...")
	os.Remove(BINARY_NAME)
	os.RemoveAll(DATA_DIR)
}

func runCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
