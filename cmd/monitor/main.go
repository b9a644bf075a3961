package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// LogEntry matches the Zap JSON structure
type LogEntry struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	GoalID string `json:"goal_id"`
	TaskID string `json:"task_id"`
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
	To     string `json:"to"`
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[37m"
)

func main() {
	fmt.Println(colorCyan + "🚀 Scheduler Activity Monitor Starting..." + colorReset)
	fmt.Println(colorGray + "Listening for allocation and reminder events from api, reminder..." + colorReset)
	fmt.Println("-------------------------------------------------------------------------")

	// Follow the compose services, both log zap JSON to stdout
	cmd := exec.Command("docker", "compose", "logs", "-f", "api", "reminder")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		fmt.Printf("Error creating stdout pipe: %v\n", err)
		return
	}

	if err := cmd.Start(); err != nil {
		fmt.Printf("Error starting docker logs command: %v\n", err)
		return
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()

		// Docker compose logs format: "service-name  | {JSON}"
		parts := strings.SplitN(line, "|", 2)
		if len(parts) < 2 {
			continue
		}

		serviceLabel := strings.TrimSpace(parts[0])
		jsonPayload := strings.TrimSpace(parts[1])

		var entry LogEntry
		if err := json.Unmarshal([]byte(jsonPayload), &entry); err != nil {
			// Not a JSON log or different format, ignore
			continue
		}

		prettify(serviceLabel, entry)
	}

	if err := cmd.Wait(); err != nil {
		fmt.Printf("Docker command exited: %v\n", err)
	}
}

func prettify(serviceLabel string, entry LogEntry) {
	serviceName := "svc"
	if strings.Contains(serviceLabel, "reminder") {
		serviceName = colorPurple + "REMINDER" + colorReset
	} else if strings.Contains(serviceLabel, "api") {
		serviceName = colorBlue + "API" + colorReset
	}

	msg := entry.Msg

	switch {
	case strings.Contains(msg, "Created goal"):
		fmt.Printf("[%s] 🎯 "+colorGreen+"New Goal:"+colorReset+" %s\n", serviceName, entry.GoalID)
	case strings.Contains(msg, "Allocated study tasks"):
		fmt.Printf("[%s] 🗓  "+colorYellow+"Allocated:"+colorReset+" %d tasks for goal %s\n", serviceName, entry.Count, entry.GoalID)
	case strings.Contains(msg, "Updated task status"):
		fmt.Printf("[%s] ⚙️  "+colorBlue+"Status Change:"+colorReset+" %s -> %s\n", serviceName, entry.TaskID, entry.To)
	case strings.Contains(msg, "Published reminder"):
		fmt.Printf("[%s] 🔔 "+colorCyan+"Reminder Sent:"+colorReset+" %s\n", serviceName, entry.TaskID)
	case strings.Contains(msg, "Stored reminder notification"):
		fmt.Printf("[%s] 📬 "+colorGreen+"Notified:"+colorReset+" %s\n", serviceName, entry.UserID)
	case strings.Contains(msg, "Reminder scanner heartbeat"):
		// Skip heartbeats to keep it clean
	case entry.Level == "error":
		fmt.Printf("[%s] ❌ "+colorRed+"ERROR:"+colorReset+" %s\n", serviceName, msg)
	}
}
