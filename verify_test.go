package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitUserName(t *testing.T) {
	tests := []struct {
		name       string
		cred       Credential
		wantDomain string
		wantUser   string
	}{
		{"plain", Credential{UserName: "alice"}, "", "alice"},
		{"captured domain", Credential{UserName: "alice", Domain: "CORP"}, "CORP", "alice"},
		{"down-level name", Credential{UserName: `CORP\alice`}, "CORP", "alice"},
		{"down-level name wins", Credential{UserName: `OTHER\alice`, Domain: "CORP"}, "OTHER", "alice"},
		{"upn", Credential{UserName: "alice@corp.example"}, "", "alice@corp.example"},
		{"upn ignores captured domain", Credential{UserName: "alice@corp.example", Domain: "CORP"}, "", "alice@corp.example"},
		{"local machine", Credential{UserName: `.\admin`}, ".", "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain, user := splitUserName(&tt.cred)
			assert.Equal(t, tt.wantDomain, domain)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}
