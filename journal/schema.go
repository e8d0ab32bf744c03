package journal

// one row per broadcast redemption, keyed by the node's request key
var redemptionTable = `CREATE TABLE IF NOT EXISTS redemption (
		requestKey VARCHAR(64) PRIMARY KEY NOT NULL,
		sendingAccount VARCHAR(256) NOT NULL,
		receivingAddress VARCHAR(62) NOT NULL,
		amount VARCHAR(64) NOT NULL,
		status VARCHAR(10) NOT NULL,
		requestId VARCHAR(64) NOT NULL DEFAULT '',
		createdAt BIGINT NOT NULL,
		updatedAt BIGINT NOT NULL,
		CONSTRAINT chk_status CHECK (status IN ('pending', 'success', 'failure')),
		CONSTRAINT chk_requestKey CHECK (requestKey != '')
	);
	CREATE INDEX IF NOT EXISTS idx_redemption_account ON redemption (sendingAccount);
	CREATE INDEX IF NOT EXISTS idx_redemption_status ON redemption (status);`
