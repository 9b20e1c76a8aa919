// Command qrsend reads lines from stdin and prints the QR code the server
// renders for each one.
package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nhdewitt/qr-from-tcp/internal/log"
)

func main() {
	addr := pflag.String("addr", "localhost:3000", "qrserver address")
	route := pflag.String("route", "/build", "build route to POST to")
	pflag.Parse()

	url := "http://" + *addr + *route
	r := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if serr := send(url, line); serr != nil {
				log.Errorf("send error: %v", serr)
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Errorf("input error: %v", err)
			}
			return
		}
	}
}

func send(url, text string) error {
	resp, err := http.Post(url, "text/plain; charset=utf-8", strings.NewReader(text))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: %s", resp.Status, msg)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/") {
		n, err := io.Copy(io.Discard, resp.Body)
		if err != nil {
			return err
		}
		fmt.Printf("received %d bytes of %s\n", n, ct)
		return nil
	}
	_, err = io.Copy(os.Stdout, resp.Body)
	return err
}
