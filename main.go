/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/atakandgn/company-management-system/cmd"

func main() {
	cmd.Execute()
}
