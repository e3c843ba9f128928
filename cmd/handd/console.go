package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/neurograsp/handd/pkg/hand"
)

// runConsole reads operator commands from stdin: the on-device
// equivalent of the serial console. One command per line.
func runConsole(ctx context.Context, ctrl *hand.Controller, cancel context.CancelFunc) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "pose":
			if len(fields) < 2 {
				fmt.Println("usage: pose <name>")
				continue
			}
			if err := ctrl.SubmitPose(fields[1]); err != nil {
				fmt.Println("error:", err)
			}
		case "stop":
			ctrl.Stop()
			fmt.Println("interlock tripped")
		case "resume":
			if err := ctrl.Resume(); err != nil {
				fmt.Println("error:", err)
			}
		case "status":
			st := ctrl.Status()
			fmt.Printf("pose=%s angles=%v tripped=%v bound=%v hr=%d spo2=%d\n",
				st.Snapshot.Pose, st.Snapshot.Angles, st.Tripped, st.Bound,
				st.Snapshot.HeartRate, st.Snapshot.SpO2)
		case "poses":
			fmt.Println(strings.Join(ctrl.Poses(), " "))
		case "quit", "exit":
			cancel()
			return
		default:
			fmt.Println("commands: pose <name> | stop | resume | status | poses | quit")
		}
	}
}
