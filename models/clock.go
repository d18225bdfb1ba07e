package models

import "time"

// Now is the clock used for every stock-affecting timestamp (received date,
// last restocked, ledger rows). Tests swap it for a fixed clock.
var Now = time.Now
