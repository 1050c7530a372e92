// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column the repositories touch, so SQL
// built with fmt.Sprintf never hard-codes an identifier twice.
package schema
