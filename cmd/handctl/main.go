// handctl is a thin remote dispatcher for handd: it maps CLI verbs
// onto the device's command API.
//
// Usage:
//
//	handctl [-addr host:port] status
//	handctl [-addr host:port] poses
//	handctl [-addr host:port] pose <name>
//	handctl [-addr host:port] stop
//	handctl [-addr host:port] resume
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/neurograsp/handd/internal/httpc"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "handd address")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	base := "http://" + *addr
	var (
		method = http.MethodGet
		path   string
	)
	switch args[0] {
	case "status":
		path = "/api/status"
	case "poses":
		path = "/api/poses"
	case "pose":
		if len(args) < 2 {
			usage()
		}
		method, path = http.MethodPost, "/api/pose/"+args[1]
	case "stop":
		method, path = http.MethodPost, "/api/stop"
	case "resume":
		method, path = http.MethodPost, "/api/resume"
	default:
		usage()
	}

	req, err := http.NewRequest(method, base+path, nil)
	if err != nil {
		fail(err)
	}
	resp, err := httpc.Client.Do(req)
	if err != nil {
		fail(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
	if resp.StatusCode >= 300 {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: handctl [-addr host:port] status|poses|pose <name>|stop|resume")
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
