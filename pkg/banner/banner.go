package banner

import "fmt"

const banner = `
 ██████╗ ██████╗ ███╗   ██╗██╗   ██╗ ██████╗ ██╗      ██████╗  ██████╗
██╔════╝██╔═══██╗████╗  ██║██║   ██║██╔═══██╗██║     ██╔═══██╗██╔════╝
██║     ██║   ██║██╔██╗ ██║██║   ██║██║   ██║██║     ██║   ██║██║  ███╗
██║     ██║   ██║██║╚██╗██║╚██╗ ██╔╝██║   ██║██║     ██║   ██║██║   ██║
╚██████╗╚██████╔╝██║ ╚████║ ╚████╔╝ ╚██████╔╝███████╗╚██████╔╝╚██████╔╝
 ╚═════╝ ╚═════╝ ╚═╝  ╚═══╝  ╚═══╝   ╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝
`

// Print writes the startup banner with the effective runtime settings.
func Print(addr, dbPath, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	if dbPath != "" {
		fmt.Printf("Journal:  %s\n", dbPath)
	} else {
		fmt.Println("Journal:  disabled (memory-only)")
	}
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/conversations - Create a conversation")
	fmt.Println("POST /v1/conversations/{id}/messages - Append a message")
	fmt.Println("POST /v1/conversations/{id}/messages/{i}/reactions - React")
	fmt.Println("GET  /v1/conversations/{id}/analytics - Analytics snapshot")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://%s/v1/conversations' -d '{\"id\":\"standup\"}'\n", addr)
	fmt.Printf("curl -X POST 'http://%s/v1/conversations/standup/messages' -d '{\"sender\":\"alice\",\"content\":\"hello\",\"type\":\"text\"}'\n", addr)
	fmt.Printf("curl 'http://%s/v1/conversations/standup/analytics'\n", addr)
}
