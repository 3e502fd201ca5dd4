package main

import (
	"fmt"
	"os"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// encorekeygen is a dev convenience utility, not a transaction builder: it
// generates a secp256k1 keypair and a random 32-byte ticket secret, then
// prints the owner_commitment those two values derive, H(pubkey ||
// secret), so a developer can hand-assemble a mint_ticket instruction
// without writing client code first.
func main() {
	fmt.Println("Generating new keypair...")
	signer, err := encorecrypto.GenerateKey()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Address: %s\n", signer.Address().Hex())
	fmt.Printf("Private Key: %s (KEEP SECRET!)\n\n", signer.PrivateKeyHex())

	secret, err := encorecrypto.RandomSecret()
	if err != nil {
		fmt.Printf("Error generating ticket secret: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Ticket Secret: %x (KEEP SECRET!)\n\n", secret[:])

	ownerCommitment := encorecrypto.Commit(signer.Address(), secret)
	nullifierSeed := encorecrypto.NullifierSeed(secret)
	nullifierAddr := encorecrypto.DeriveNullifierAddress(secret)

	fmt.Println("Derived values:")
	fmt.Printf("  owner_commitment:    %s\n", ownerCommitment.Hex())
	fmt.Printf("  nullifier_seed:      %s\n", nullifierSeed.Hex())
	fmt.Printf("  nullifier_address:   %s (spent once this ticket is sold or transferred)\n\n", nullifierAddr.Hex())

	fmt.Println("To mint a ticket with this commitment:")
	fmt.Println("  POST http://localhost:8080/api/v1/tx")
	fmt.Println("  Content-Type: application/json")
	fmt.Println(`  Body: {"type":"mint_ticket","payload":{"eventConfig":"<event address>","ownerCommitment":"` + ownerCommitment.Hex() + `", ...}}`)
	fmt.Println()
	fmt.Println("Keep the ticket secret; it is required to prove ownership when")
	fmt.Println("transferring, listing or redeeming this ticket later.")
}
