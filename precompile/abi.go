// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package precompile

import "github.com/luxfi/geth/common"

// ContractAddress is where the precompile is installed
var ContractAddress = common.HexToAddress("0x0200000000000000000000000000000000000080")

// Gas costs per method
const (
	VerifyInputGas    uint64 = 120_000
	AllowGas          uint64 = 25_000
	AllowTransientGas uint64 = 5_000
	IsAllowedGas      uint64 = 3_000
	RevokeAllGas      uint64 = 25_000
	AddGas            uint64 = 65_000
	SubGas            uint64 = 65_000
	CompareGas        uint64 = 60_000
	CastGas           uint64 = 30_000
	TrivialEncryptGas uint64 = 50_000
)

// ABI is the interface of the precompile
const ABI = `[
	{
		"inputs": [
			{"internalType": "bytes", "name": "material", "type": "bytes"},
			{"internalType": "bytes", "name": "proof", "type": "bytes"}
		],
		"name": "verifyInput",
		"outputs": [{"internalType": "bytes32", "name": "handle", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "handle", "type": "bytes32"},
			{"internalType": "address", "name": "account", "type": "address"},
			{"internalType": "uint8", "name": "capability", "type": "uint8"}
		],
		"name": "allow",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "handle", "type": "bytes32"},
			{"internalType": "address", "name": "account", "type": "address"},
			{"internalType": "uint8", "name": "capability", "type": "uint8"}
		],
		"name": "allowTransient",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "handle", "type": "bytes32"},
			{"internalType": "address", "name": "account", "type": "address"},
			{"internalType": "uint8", "name": "capability", "type": "uint8"}
		],
		"name": "isAllowed",
		"outputs": [{"internalType": "bool", "name": "allowed", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "bytes32", "name": "handle", "type": "bytes32"}],
		"name": "revokeAll",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "lhs", "type": "bytes32"},
			{"internalType": "bytes32", "name": "rhs", "type": "bytes32"}
		],
		"name": "add",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "lhs", "type": "bytes32"},
			{"internalType": "bytes32", "name": "rhs", "type": "bytes32"}
		],
		"name": "sub",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "lhs", "type": "bytes32"},
			{"internalType": "bytes32", "name": "rhs", "type": "bytes32"}
		],
		"name": "eq",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "lhs", "type": "bytes32"},
			{"internalType": "bytes32", "name": "rhs", "type": "bytes32"}
		],
		"name": "gt",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "lhs", "type": "bytes32"},
			{"internalType": "bytes32", "name": "rhs", "type": "bytes32"}
		],
		"name": "ge",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "lhs", "type": "bytes32"},
			{"internalType": "bytes32", "name": "rhs", "type": "bytes32"}
		],
		"name": "lt",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "bytes32", "name": "handle", "type": "bytes32"},
			{"internalType": "uint8", "name": "toType", "type": "uint8"}
		],
		"name": "cast",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "value", "type": "uint256"},
			{"internalType": "uint8", "name": "toType", "type": "uint8"}
		],
		"name": "trivialEncrypt",
		"outputs": [{"internalType": "bytes32", "name": "result", "type": "bytes32"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`
