// Command ecommute-cli is a small terminal client for the ECOmmute server.
//
// Usage:
//
//	ecommute-cli [-s http://host:3260] register <user>
//	ecommute-cli [-s http://host:3260] login <user>
//	ecommute-cli [-s http://host:3260] track <user> <distance> <mode>
//	ecommute-cli [-s http://host:3260] list <user>
//	ecommute-cli [-s http://host:3260] leaderboard
//
// Passwords are read from the terminal, never from arguments.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"syscall"

	"golang.org/x/term"
)

func main() {
	serverAddr := flag.String("s", "http://127.0.0.1:3260", "server base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "register":
		err = withPassword(args[1:], 1, func(user, pass string) error {
			return call(http.MethodPost, *serverAddr+"/signup", url.Values{"user": {user}, "pass": {pass}})
		})
	case "login":
		err = withPassword(args[1:], 1, func(user, pass string) error {
			return call(http.MethodGet, *serverAddr+"/login", url.Values{"user": {user}, "pass": {pass}})
		})
	case "track":
		if len(args) != 4 {
			usage()
			os.Exit(2)
		}
		err = call(http.MethodPost, *serverAddr+"/trackEmissions",
			url.Values{"user": {args[1]}, "distance": {args[2]}, "mode": {args[3]}})
	case "list":
		if len(args) != 2 {
			usage()
			os.Exit(2)
		}
		err = call(http.MethodGet, *serverAddr+"/trackEmissions", url.Values{"user": {args[1]}})
	case "leaderboard":
		err = call(http.MethodGet, *serverAddr+"/getLeaderboard", nil)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ecommute-cli [-s url] register|login|track|list|leaderboard ...")
}

// withPassword runs fn with the username from args and a password prompted
// from the terminal.
func withPassword(args []string, want int, fn func(user, pass string) error) error {
	if len(args) != want {
		usage()
		os.Exit(2)
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	return fn(args[0], string(raw))
}

func call(method, endpoint string, params url.Values) error {
	if params != nil {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequest(method, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", resp.Status, body)
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
	return nil
}
