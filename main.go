// Command pomo is a terminal Pomodoro timer with statistics and a task list.
package main

import "github.com/xvierd/pomo/cmd"

func main() {
	cmd.Execute()
}
