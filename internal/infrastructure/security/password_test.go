package security

import (
	"strings"
	"sync"
	"testing"
)

// cheap parameters keep the suite fast; the record format is unchanged.
var testParams = Argon2Params{Time: 1, Memory: 1024, Threads: 1}

func TestPasswordHasher_HashIsSaltedAndTagged(t *testing.T) {
	h := NewPasswordHasher(testParams)

	first, err := h.Hash("password#123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("password#123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct records for the same password")
	}
	if !strings.HasPrefix(first, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected record prefix: %s", first)
	}
	if strings.Contains(first, "password#123") {
		t.Fatalf("record leaks the password")
	}
}

func TestPasswordHasher_Verify(t *testing.T) {
	h := NewPasswordHasher(testParams)
	record, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !h.Verify("s3cret", record) {
		t.Fatalf("expected matching password to verify")
	}
	if h.Verify("s3cret!", record) {
		t.Fatalf("expected different password to fail")
	}
	if h.Verify("", record) {
		t.Fatalf("expected empty password to fail")
	}
}

func TestPasswordHasher_VerifyUsesRecordParams(t *testing.T) {
	record, err := NewPasswordHasher(Argon2Params{Time: 2, Memory: 2048, Threads: 2}).Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !NewPasswordHasher(testParams).Verify("pw", record) {
		t.Fatalf("expected record hashed with other params to verify")
	}
}

func TestPasswordHasher_VerifyRejectsMalformedRecords(t *testing.T) {
	h := NewPasswordHasher(testParams)
	good, _ := h.Hash("pw")
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"empty":         "",
		"bcrypt":        "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		"wrong tag":     strings.Replace(good, "argon2id", "argon2i", 1),
		"wrong version": strings.Replace(good, "v=19", "v=16", 1),
		"bad params":    strings.Replace(good, parts[3], "m=x,t=1,p=1", 1),
		"bad salt":      strings.Replace(good, parts[4], "***", 1),
		"no digest":     strings.TrimSuffix(good, parts[5]),
	}
	for name, record := range cases {
		if h.Verify("pw", record) {
			t.Errorf("%s: expected verify to fail", name)
		}
	}
}

func TestPasswordHasher_ZeroParamsFallBackToDefaults(t *testing.T) {
	h := NewPasswordHasher(Argon2Params{})
	if h.params != DefaultArgon2Params {
		t.Fatalf("expected default params, got %+v", h.params)
	}
}

func TestPasswordHasher_ConcurrentUse(t *testing.T) {
	h := NewPasswordHasher(testParams)

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := h.Hash("shared")
			if err != nil || !h.Verify("shared", record) {
				errs <- "round trip failed"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}
