// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package migrations embeds the SQLite schema for the campaign store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
