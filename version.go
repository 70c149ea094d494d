package glamcare

const Version = "0.1.0"
