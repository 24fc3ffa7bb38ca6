package names

import (
	"math/rand/v2"
	"os"
	"strings"
)

var namePool = []string{
	"", " ", "Dr.", "Mr", "mrs", "Prof", "J", "J.", "MJ", "L.S.", "tbd", "N/A",
	"Ohio", "Public", "al", "Al", "Ky", "jo", "Smith", "Kramer", "Jane", "O'Brien",
	"VISIT", "WEBSITE", "Pastor", "José", "123", "-", "ERG",
}

var localPool = []string{
	"jkramer", "aVukoder", "first.last", "info", "DrewFilipski", "PastorGeorge",
	"DrSmith", "jsmith", "karl2", "ed", "Amanda.L.Tarnovecky", "kyconnare",
	"john_doe_99", "12345", "admissions", "x", "",
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ._-0123456789"

func randomName(rng *rand.Rand) string {
	if rng.IntN(2) == 0 {
		return namePool[rng.IntN(len(namePool))]
	}
	return randomString(rng, rng.IntN(9))
}

func randomEmail(rng *rand.Rand) string {
	var local string
	if rng.IntN(2) == 0 {
		local = localPool[rng.IntN(len(localPool))]
	} else {
		local = randomString(rng, 1+rng.IntN(14))
	}
	if rng.IntN(20) == 0 {
		return local
	}
	return local + "@example.com"
}

func randomString(rng *rand.Rand, n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(letters[rng.IntN(len(letters))])
	}
	return b.String()
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
