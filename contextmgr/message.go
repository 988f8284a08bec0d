package contextmgr

import "github.com/hupe1980/convoagent/core"

// CreateMessage is a formatting primitive: it builds a Message from role and
// content without validating either. Role legality is the caller's concern.
func CreateMessage(role core.Role, content string) core.Message {
	return core.Message{Role: role, Content: content}
}
